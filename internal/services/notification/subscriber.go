package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/messaging"
	"izakaya-order/internal/models"
)

// Source delivers notification messages, typically a consumer on the notifications queue
type Source interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
}

// Subscriber prints status updates and staff calls for the floor staff
type Subscriber struct {
	source Source
	out    io.Writer
	loc    *time.Location
	logger *logger.Logger
}

// NewSubscriber creates a new notification subscriber
func NewSubscriber(source Source, out io.Writer, loc *time.Location, log *logger.Logger) *Subscriber {
	if loc == nil {
		loc = time.Local
	}
	return &Subscriber{
		source: source,
		out:    out,
		loc:    loc,
		logger: log,
	}
}

// Start consumes notifications until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, map[string]interface{}{
		"queue": messaging.QueueNotifications,
	})

	err := s.source.StartConsuming(ctx, s.handleNotification)
	if err != nil && ctx.Err() == nil {
		s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		return err
	}

	s.logger.Info("graceful_shutdown", "Notification subscriber stopped", requestID, nil)
	return nil
}

// handleNotification reads the type first and then the concrete message.
// Unreadable and unknown messages are dropped.
func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var head models.Notification
	if err := json.Unmarshal(body, &head); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return nil
	}

	var text string
	switch head.Type {
	case models.NotificationStatusUpdate:
		var update models.StatusUpdateMessage
		if err := json.Unmarshal(body, &update); err != nil {
			s.logger.Error("message_parsing_failed", "Failed to parse status update", requestID, err, nil)
			return nil
		}
		text = s.formatStatusUpdate(&update)
		s.logger.Debug("notification_received", "Received status update notification", requestID, map[string]interface{}{
			"order_id":   update.OrderID,
			"table_id":   update.TableID,
			"new_status": update.NewStatus,
			"changed_by": update.ChangedBy,
		})
	case models.NotificationStaffCall:
		var call models.StaffCallMessage
		if err := json.Unmarshal(body, &call); err != nil {
			s.logger.Error("message_parsing_failed", "Failed to parse staff call", requestID, err, nil)
			return nil
		}
		text = s.formatStaffCall(&call)
		s.logger.Info("staff_call_received", fmt.Sprintf("Table %s called staff", call.TableID), requestID, map[string]interface{}{
			"table_id": call.TableID,
		})
	default:
		s.logger.Warn("notification_unknown", "Dropping notification of unknown type", requestID, map[string]interface{}{
			"type": head.Type,
		})
		return nil
	}

	if _, err := fmt.Fprintln(s.out, text); err != nil {
		return fmt.Errorf("failed to display notification: %w", err)
	}
	return nil
}

// formatStatusUpdate creates a human-readable notification message
func (s *Subscriber) formatStatusUpdate(update *models.StatusUpdateMessage) string {
	timestamp := update.Timestamp.In(s.loc).Format("15:04:05")

	switch models.OrderStatus(update.NewStatus) {
	case models.StatusServed:
		return fmt.Sprintf("✅ [%s] 卓 %s: 注文 %s を提供しました (%s)", timestamp, update.TableID, update.OrderID, update.ChangedBy)
	case models.StatusPaid:
		return fmt.Sprintf("💴 [%s] 卓 %s: 注文 %s のお会計が済みました", timestamp, update.TableID, update.OrderID)
	case models.StatusCancelled:
		return fmt.Sprintf("❌ [%s] 卓 %s: 注文 %s はキャンセルされました (%s)", timestamp, update.TableID, update.OrderID, update.ChangedBy)
	default:
		return fmt.Sprintf("📋 [%s] 卓 %s: 注文 %s が %s から %s に変わりました (%s)",
			timestamp, update.TableID, update.OrderID, update.OldStatus, update.NewStatus, update.ChangedBy)
	}
}

func (s *Subscriber) formatStaffCall(call *models.StaffCallMessage) string {
	return fmt.Sprintf("🔔 [%s] 卓 %s: スタッフを呼んでいます", call.Timestamp.In(s.loc).Format("15:04:05"), call.TableID)
}
