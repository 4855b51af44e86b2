package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
)

type fakeChannel struct {
	exchanges map[string]string
	queues    map[string]bool
	binds     map[string]string
	failOn    string
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		exchanges: map[string]string{},
		queues:    map[string]bool{},
		binds:     map[string]string{},
	}
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	if f.failOn == name {
		return errors.New("refused")
	}
	f.exchanges[name] = kind
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error) {
	if name == "" {
		name = "amq.gen-instance"
	}
	f.queues[name] = exclusive
	return amqp091.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error {
	f.binds[name] = exchange + "/" + key
	return nil
}

func TestSetupTopology(t *testing.T) {
	ch := newFakeChannel()
	require.NoError(t, setupTopology(ch))

	assert.Equal(t, "topic", ch.exchanges[ExchangeOrders])
	assert.Equal(t, "fanout", ch.exchanges[ExchangeNotifications])
	assert.Equal(t, "fanout", ch.exchanges[ExchangeSnapshots])
	assert.Equal(t, ExchangeOrders+"/"+KitchenBinding, ch.binds[QueueKitchen])
	assert.Equal(t, ExchangeNotifications+"/", ch.binds[QueueNotifications])
}

func TestSetupTopology_ExchangeFailure(t *testing.T) {
	ch := newFakeChannel()
	ch.failOn = ExchangeSnapshots
	assert.Error(t, setupTopology(ch))
}

func TestDeclareInstanceQueue(t *testing.T) {
	ch := newFakeChannel()
	name, err := declareInstanceQueue(ch)
	require.NoError(t, err)

	assert.Equal(t, "amq.gen-instance", name)
	assert.True(t, ch.queues[name], "instance queue is exclusive")
	assert.Equal(t, ExchangeSnapshots+"/", ch.binds[name])
}

func TestNewPublishing(t *testing.T) {
	msg := models.CreateStaffCallMessage("4")

	p, err := newPublishing(context.Background(), msg, true)
	require.NoError(t, err)
	assert.Equal(t, "application/json", p.ContentType)
	assert.Equal(t, amqp091.Persistent, p.DeliveryMode)

	var decoded models.StaffCallMessage
	require.NoError(t, json.Unmarshal(p.Body, &decoded))
	assert.Equal(t, models.NotificationStaffCall, decoded.Type)
	assert.Equal(t, "4", decoded.TableID)

	p, err = newPublishing(context.Background(), msg, false)
	require.NoError(t, err)
	assert.Equal(t, amqp091.Transient, p.DeliveryMode)

	_, err = newPublishing(context.Background(), func() {}, false)
	assert.Error(t, err)
}

func TestRoutingKeyMatchesKitchenBinding(t *testing.T) {
	assert.Equal(t, "kitchen.table.5", models.GenerateRoutingKey("5"))
}

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestProcessMessage_Settles(t *testing.T) {
	c := &Consumer{logger: logger.NewWithWriter("test", io.Discard), queueName: QueueKitchen}
	failing := func(ctx context.Context, body []byte) error { return errors.New("printer jammed") }

	tests := []struct {
		name        string
		handler     MessageHandler
		redelivered bool
		wantAck     int
		wantNack    int
		wantRequeue bool
	}{
		{"success acks", func(ctx context.Context, body []byte) error { return nil }, false, 1, 0, false},
		{"first failure requeues", failing, false, 0, 1, true},
		{"second failure drops", failing, true, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			d := amqp091.Delivery{Acknowledger: ack, DeliveryTag: 7, Redelivered: tt.redelivered, Body: []byte(`{}`)}

			c.processMessage(context.Background(), d, tt.handler)

			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, tt.wantNack, ack.nacked)
			assert.Equal(t, tt.wantRequeue, ack.requeue)
		})
	}
}

func TestTraceContextTravelsInHeaders(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03},
		SpanID:     trace.SpanID{0x04, 0x05},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	p, err := newPublishing(ctx, models.CreateStaffCallMessage("1"), false)
	require.NoError(t, err)
	assert.Contains(t, p.Headers, "traceparent")

	var got trace.SpanContext
	c := &Consumer{logger: logger.NewWithWriter("test", io.Discard)}
	d := amqp091.Delivery{Acknowledger: &fakeAcknowledger{}, Headers: p.Headers, Body: p.Body}
	c.processMessage(context.Background(), d, func(ctx context.Context, body []byte) error {
		got = trace.SpanContextFromContext(ctx)
		return nil
	})

	assert.Equal(t, sc.TraceID(), got.TraceID())
	assert.Equal(t, sc.SpanID(), got.SpanID())
}

func TestHeaderCarrier(t *testing.T) {
	h := headerCarrier(amqp091.Table{"n": 5})
	h.Set("traceparent", "00-abc")

	assert.Equal(t, "00-abc", h.Get("traceparent"))
	assert.Equal(t, "", h.Get("n"), "non-string headers are ignored")
	assert.ElementsMatch(t, []string{"n", "traceparent"}, h.Keys())
}
