package events

import (
	"context"

	"github.com/nerrad567/heritage-sites/internal/infrastructure/logging"
	"github.com/nerrad567/heritage-sites/internal/metrics"
)

// Publisher delivers each event to every sink in order.
// A nil *Publisher discards events.
type Publisher struct {
	logger *logging.Logger
	sinks  []Sink
}

// NewPublisher creates a Publisher. Nil sinks are skipped.
func NewPublisher(logger *logging.Logger, sinks ...Sink) *Publisher {
	if logger == nil {
		logger = logging.Discard()
	}
	p := &Publisher{logger: logger.With("component", "events")}
	for _, s := range sinks {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
	return p
}

// Sinks returns the names of the configured sinks.
func (p *Publisher) Sinks() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.sinks))
	for _, s := range p.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Publish sends ev to all sinks. Failures are logged and counted.
func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p == nil {
		return
	}
	for _, s := range p.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			metrics.RecordEventFailure(s.Name())
			p.logger.Warn("site event not delivered",
				"sink", s.Name(),
				"action", ev.Action,
				"site_id", ev.SiteID,
				"error", err,
			)
		}
	}
}
