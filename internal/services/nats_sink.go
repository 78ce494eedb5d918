package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// NatsEventSink publishes events on "<prefix>.<action>", e.g. reaction.created.
type NatsEventSink struct {
	nc     *nats.Conn
	prefix string
}

func NewNatsEventSink(nc *nats.Conn) *NatsEventSink {
	return &NatsEventSink{nc: nc, prefix: "reaction"}
}

func (s *NatsEventSink) Publish(ctx context.Context, evt ReactionEvent) error {
	msg, err := s.message(ctx, evt)
	if err != nil {
		return err
	}
	return s.nc.PublishMsg(msg)
}

func (s *NatsEventSink) message(ctx context.Context, evt ReactionEvent) (*nats.Msg, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: s.prefix + "." + string(evt.Action),
		Data:    data,
		Header:  nats.Header{},
	}
	// Carry the request's trace into the message headers.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg, nil
}
