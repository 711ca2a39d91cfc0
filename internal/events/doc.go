// Package events fans catalog change notifications out to optional sinks.
//
// A Publisher is built once at startup with whichever sinks are configured:
//
//	pub := events.NewPublisher(logger,
//		events.NewMQTTSink(mqttClient),
//		events.NewPointSink(influxClient),
//		events.MetricsSink{},
//	)
//	pub.Publish(ctx, events.SiteEvent(events.ActionUpdated, site, ids, change, userID))
//
// Delivery is best effort. A failing sink is logged and counted, and never
// surfaces to the caller.
package events
