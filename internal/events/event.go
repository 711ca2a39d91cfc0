package events

import (
	"time"

	"github.com/nerrad567/heritage-sites/internal/heritage"
)

// Actions carried by an Event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes one committed change to a heritage site.
type Event struct {
	Action     string    `json:"action"`
	SiteID     int64     `json:"site_id"`
	SiteName   string    `json:"site_name"`
	Category   string    `json:"category,omitempty"`
	CountryIDs []int64   `json:"countries"`
	Added      []int64   `json:"added"`
	Removed    []int64   `json:"removed"`
	UserID     string    `json:"user_id,omitempty"`
	At         time.Time `json:"timestamp"`
}

// SiteEvent builds the event for a site after action was committed.
// countryIDs is the site's jurisdiction set after the change.
func SiteEvent(action string, site *heritage.Site, countryIDs []int64, change heritage.JurisdictionChange, userID string) Event {
	return Event{
		Action:     action,
		SiteID:     site.ID,
		SiteName:   site.Name,
		Category:   site.CategoryName(),
		CountryIDs: nonNil(countryIDs),
		Added:      nonNil(change.Added),
		Removed:    nonNil(change.Removed),
		UserID:     userID,
		At:         time.Now().UTC(),
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
