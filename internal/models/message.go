package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OrderMessage is the kitchen ticket published when a table submits an order
type OrderMessage struct {
	OrderID     string      `json:"order_id"`
	TableID     string      `json:"table_id"`
	Lines       []OrderLine `json:"lines"`
	TotalAmount int         `json:"total_amount"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Notification types carried on the notifications exchange
const (
	NotificationStatusUpdate = "status_update"
	NotificationStaffCall    = "staff_call"
)

// Notification is the part every notification shares, read first to pick the concrete type
type Notification struct {
	Type string `json:"type"`
}

// StatusUpdateMessage represents a status update notification
type StatusUpdateMessage struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	TableID   string    `json:"table_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

// StaffCallMessage is published when a diner asks for staff at the table
type StaffCallMessage struct {
	Type      string    `json:"type"`
	TableID   string    `json:"table_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotKind names the collection carried by a snapshot message
type SnapshotKind string

const (
	SnapshotCatalog SnapshotKind = "catalog"
	SnapshotOrders  SnapshotKind = "orders"
)

// SnapshotMessage carries a whole collection from one instance to the others.
// Data is kept raw so the receiver validates it before replacing local state.
type SnapshotMessage struct {
	Kind      SnapshotKind    `json:"kind"`
	Origin    string          `json:"origin"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// CreateOrderMessage builds a kitchen ticket from a submitted order
func CreateOrderMessage(order Order) *OrderMessage {
	return &OrderMessage{
		OrderID:     order.ID,
		TableID:     order.TableID,
		Lines:       order.Lines,
		TotalAmount: order.TotalAmount,
		Timestamp:   order.Timestamp,
	}
}

// CreateStatusUpdateMessage creates a StatusUpdateMessage for order status changes
func CreateStatusUpdateMessage(order Order, oldStatus OrderStatus, changedBy string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		Type:      NotificationStatusUpdate,
		OrderID:   order.ID,
		TableID:   order.TableID,
		OldStatus: string(oldStatus),
		NewStatus: string(order.Status),
		ChangedBy: changedBy,
		Timestamp: time.Now().UTC(),
	}
}

// CreateStaffCallMessage creates a staff call for tableID
func CreateStaffCallMessage(tableID string) *StaffCallMessage {
	return &StaffCallMessage{
		Type:      NotificationStaffCall,
		TableID:   tableID,
		Timestamp: time.Now().UTC(),
	}
}

// GenerateRoutingKey generates the kitchen routing key for a table
func GenerateRoutingKey(tableID string) string {
	return fmt.Sprintf("kitchen.table.%s", tableID)
}
