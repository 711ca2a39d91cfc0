package mqtt

import (
	"fmt"
	"strings"
)

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "heritage"

// Topics builds the topic names used by the catalog.
//
//	topics := mqtt.Topics{Prefix: "heritage"}
//	topics.SiteEvent(42, "created") // "heritage/sites/42/created"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.Trim(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// SiteEvent returns the topic for a change to one heritage site.
func (t Topics) SiteEvent(siteID int64, action string) string {
	return fmt.Sprintf("%s/sites/%d/%s", t.prefix(), siteID, action)
}

// AllSiteEvents returns a wildcard matching every site event.
func (t Topics) AllSiteEvents() string {
	return t.prefix() + "/sites/+/+"
}

// SystemStatus returns the retained presence topic.
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}
