package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementCatalogChanges holds one point per site change.
const MeasurementCatalogChanges = "catalog_changes"

// SiteChange describes one catalog mutation for telemetry.
type SiteChange struct {
	Action    string // created, updated, deleted
	SiteID    int64
	Category  string
	Countries int // jurisdictions after the change
	Added     int // jurisdictions inserted
	Removed   int // jurisdictions deleted
	At        time.Time
}

// siteChangePoint converts a change into an InfluxDB point. Site IDs are a
// field, not a tag, to keep series cardinality bounded.
func siteChangePoint(ch SiteChange) *write.Point {
	at := ch.At
	if at.IsZero() {
		at = time.Now()
	}

	tags := map[string]string{"action": ch.Action}
	if ch.Category != "" {
		tags["category"] = ch.Category
	}

	return write.NewPoint(MeasurementCatalogChanges, tags,
		map[string]any{
			"site_id":   ch.SiteID,
			"countries": ch.Countries,
			"added":     ch.Added,
			"removed":   ch.Removed,
		},
		at,
	)
}

// WriteSiteChange records a site mutation. It is a no-op when disconnected.
func (c *Client) WriteSiteChange(ch SiteChange) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(siteChangePoint(ch))
}

// WritePoint writes a custom point timestamped now.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
