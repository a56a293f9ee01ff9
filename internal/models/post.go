package models

import "time"

// PostRecord is one row of the posts log: a generated Facebook post plus the
// event and coordinates that prompted it.
type PostRecord struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	PostedAt    time.Time `json:"posted_at"`
	Event       string    `json:"event,omitempty"`
	Coordinates string    `json:"coordinates,omitempty"`
}
