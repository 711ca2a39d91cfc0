// Package mqtt publishes catalog change events to an MQTT broker.
//
// The client connects once at startup, reconnects automatically, and
// announces its presence on {prefix}/system/status with a retained message.
// A Last Will and Testament marks it offline if the process dies.
//
// Publishing never blocks for longer than the publish timeout; callers that
// treat events as best effort should log and move on when Publish fails.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().SiteEvent(42, "updated")
//	err = client.Publish(topic, payload, 1, false)
package mqtt
