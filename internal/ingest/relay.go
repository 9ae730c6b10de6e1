package ingest

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/resflow/resflow/pkg/mailparse"
)

// Relay subscribes to the inbound-mail subject, runs each message through the
// parsing engine, and publishes the outcome. Retry and backoff for failed
// parses stay with whoever consumes the dead-letter subject; the relay itself
// never retries.
type Relay struct {
	nc       *nats.Conn
	registry *mailparse.Registry
	cfg      RelayConfig
	logger   zerolog.Logger
	sub      *nats.Subscription

	processed atomic.Int64
	unmatched atomic.Int64
	failed    atomic.Int64
}

// NewRelay creates a relay. Call Start to begin consuming.
func NewRelay(nc *nats.Conn, registry *mailparse.Registry, cfg RelayConfig, logger zerolog.Logger) *Relay {
	return &Relay{
		nc:       nc,
		registry: registry,
		cfg:      cfg,
		logger:   logger.With().Str("component", "relay").Logger(),
	}
}

// Start subscribes to the inbound subject.
func (r *Relay) Start() error {
	sub, err := r.nc.Subscribe(r.cfg.InboundSubject, r.handleInbound)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", r.cfg.InboundSubject, err)
	}
	r.sub = sub
	r.logger.Info().Str("subject", r.cfg.InboundSubject).Msg("relay started")
	return nil
}

// Stop unsubscribes from the inbound subject.
func (r *Relay) Stop() {
	if r.sub != nil {
		r.sub.Unsubscribe()
	}
	r.logger.Info().
		Int64("processed", r.processed.Load()).
		Int64("unmatched", r.unmatched.Load()).
		Int64("failed", r.failed.Load()).
		Msg("relay stopped")
}

func (r *Relay) handleInbound(msg *nats.Msg) {
	r.Process(msg.Data)
}

// Process runs one raw inbound message (JSON InboundMessage) through the
// engine and publishes the outcome. Shared by the NATS subscriber and the
// drop-directory watcher.
func (r *Relay) Process(raw []byte) {
	var inbound InboundMessage
	if err := json.Unmarshal(raw, &inbound); err != nil {
		r.failed.Add(1)
		r.logger.Error().Err(err).Msg("malformed inbound message")
		r.publish(r.cfg.FailedSubject, NewEvent(EventTypeFailed, "relay", map[string]any{
			"error": err.Error(),
			"raw":   string(raw),
		}))
		return
	}

	payload, err := r.registry.ParseEmail(inbound.ParserInput())
	if err != nil {
		r.failed.Add(1)
		r.logger.Error().Err(err).Msg("parse failed, dead-lettering")
		r.publish(r.cfg.FailedSubject, NewEvent(EventTypeFailed, "relay", map[string]any{
			"error":   err.Error(),
			"message": inbound,
		}))
		return
	}

	if payload == nil {
		// Not an error: no registered provider recognized the message.
		r.unmatched.Add(1)
		r.logger.Debug().Str("subject", inbound.Headers["Subject"]).Msg("no provider matched")
		r.publish(r.cfg.UnmatchedSubject, NewEvent(EventTypeUnmatched, "relay", inbound))
		return
	}

	r.processed.Add(1)
	r.logger.Info().
		Str("provider", string(payload.Source)).
		Str("reservation_id", payload.ReservationID).
		Msg("reservation email parsed")
	r.publish(r.cfg.ParsedSubject, NewEvent(EventTypeParsed, string(payload.Source), payload))
}

func (r *Relay) publish(subject string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		r.logger.Error().Err(err).Msg("marshal event")
		return
	}
	if err := r.nc.Publish(subject, data); err != nil {
		r.logger.Error().Err(err).Str("subject", subject).Msg("publish event")
	}
}
