package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/heritage-sites/internal/infrastructure/influxdb"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/mqtt"
	"github.com/nerrad567/heritage-sites/internal/metrics"
)

// Sink receives committed change events.
type Sink interface {
	Name() string
	Publish(ctx context.Context, ev Event) error
}

// MQTTPublisher is the subset of *mqtt.Client used by MQTTSink.
type MQTTPublisher interface {
	PublishEvent(topic string, payload []byte) error
	Topics() mqtt.Topics
}

// MQTTSink publishes each event as JSON on prefix/sites/{id}/{action}.
type MQTTSink struct {
	client MQTTPublisher
}

// NewMQTTSink creates a sink publishing through client.
func NewMQTTSink(client MQTTPublisher) *MQTTSink {
	return &MQTTSink{client: client}
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Publish implements Sink.
func (s *MQTTSink) Publish(_ context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding site event: %w", err)
	}
	topic := s.client.Topics().SiteEvent(ev.SiteID, ev.Action)
	if err := s.client.PublishEvent(topic, payload); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// PointWriter is the subset of *influxdb.Client used by PointSink.
type PointWriter interface {
	WriteSiteChange(ch influxdb.SiteChange)
}

// PointSink writes one catalog_changes point per event.
type PointSink struct {
	writer PointWriter
}

// NewPointSink creates a sink writing through w.
func NewPointSink(w PointWriter) *PointSink {
	return &PointSink{writer: w}
}

// Name implements Sink.
func (s *PointSink) Name() string { return "influxdb" }

// Publish implements Sink. Writes are batched by the client, so errors
// arrive asynchronously on its error callback.
func (s *PointSink) Publish(_ context.Context, ev Event) error {
	s.writer.WriteSiteChange(influxdb.SiteChange{
		Action:    ev.Action,
		SiteID:    ev.SiteID,
		Category:  ev.Category,
		Countries: len(ev.CountryIDs),
		Added:     len(ev.Added),
		Removed:   len(ev.Removed),
		At:        ev.At,
	})
	return nil
}

// MetricsSink counts events in Prometheus.
type MetricsSink struct{}

// Name implements Sink.
func (MetricsSink) Name() string { return "metrics" }

// Publish implements Sink.
func (MetricsSink) Publish(_ context.Context, ev Event) error {
	metrics.RecordSiteChange(ev.Action, len(ev.Added), len(ev.Removed))
	return nil
}
