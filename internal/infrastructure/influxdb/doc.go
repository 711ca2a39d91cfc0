// Package influxdb records catalog change telemetry in InfluxDB.
//
// Each create, update or delete of a heritage site becomes one point in the
// catalog_changes measurement, tagged by action, so dashboards can chart
// editing activity over time.
//
// Writes are non-blocking and batched (batch_size, flush_interval); write
// errors are delivered asynchronously to the SetOnError callback.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // telemetry off
//	}
//	defer client.Close()
//	client.WriteSiteChange(influxdb.SiteChange{Action: "created", SiteID: 42})
package influxdb
