// Package audit records who changed which catalog entity, and when.
//
// Every create, update and delete of a heritage site writes one Entry.
// The site detail page shows the most recent entries for that site.
package audit
