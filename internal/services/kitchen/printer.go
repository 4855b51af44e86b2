package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/messaging"
	"izakaya-order/internal/models"
)

// TicketSource delivers kitchen tickets, typically a consumer on the kitchen queue
type TicketSource interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
}

// Printer prints every kitchen ticket published at checkout
type Printer struct {
	source TicketSource
	out    io.Writer
	loc    *time.Location
	logger *logger.Logger
	yen    *message.Printer
}

func NewPrinter(source TicketSource, out io.Writer, loc *time.Location, log *logger.Logger) *Printer {
	return &Printer{
		source: source,
		out:    out,
		loc:    loc,
		logger: log,
		yen:    message.NewPrinter(language.Japanese),
	}
}

// Start consumes tickets until ctx is cancelled
func (p *Printer) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	p.logger.Info("service_started", "Kitchen printer started", requestID, map[string]interface{}{
		"queue": messaging.QueueKitchen,
	})

	err := p.source.StartConsuming(ctx, p.handleTicket)
	if err != nil && ctx.Err() == nil {
		p.logger.Error("consumer_failed", "Kitchen ticket consumer failed", requestID, err, nil)
		return err
	}

	p.logger.Info("graceful_shutdown", "Kitchen printer stopped", requestID, nil)
	return nil
}

// handleTicket prints one ticket. Unreadable tickets are dropped so they do not block the queue.
func (p *Printer) handleTicket(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var ticket models.OrderMessage
	if err := json.Unmarshal(body, &ticket); err != nil {
		p.logger.Error("message_parsing_failed", "Failed to parse kitchen ticket", requestID, err, nil)
		return nil
	}

	if _, err := io.WriteString(p.out, p.format(&ticket)); err != nil {
		return fmt.Errorf("failed to print ticket: %w", err)
	}

	p.logger.Debug("ticket_printed", fmt.Sprintf("Printed ticket for order %s", ticket.OrderID), requestID, map[string]interface{}{
		"order_id": ticket.OrderID,
		"table_id": ticket.TableID,
		"lines":    len(ticket.Lines),
	})
	return nil
}

func (p *Printer) format(ticket *models.OrderMessage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "==== 卓 %s / %s / %s ====\n",
		ticket.TableID, ticket.OrderID, ticket.Timestamp.In(p.loc).Format("15:04"))
	for _, line := range ticket.Lines {
		fmt.Fprintf(&b, "%s x%d  %s\n", line.Name, line.Quantity, p.price(line.Subtotal()))
		for _, c := range line.Customizations {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}
	fmt.Fprintf(&b, "合計 %s\n", p.price(ticket.TotalAmount))
	return b.String()
}

func (p *Printer) price(yen int) string {
	return p.yen.Sprintf("¥%d", yen)
}
