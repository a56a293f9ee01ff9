package models

import "time"

// TweetRecord is one row of the tweets log: a generated status message and
// the observation data it was generated from.
type TweetRecord struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	PostedAt    time.Time `json:"posted_at"`
	DataSummary string    `json:"data_summary,omitempty"`
}
