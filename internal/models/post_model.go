package models

import "time"

type Post struct {
	ID            string     `db:"id" json:"id"`
	Niche         string     `db:"niche" json:"niche"`
	Topic         string     `db:"topic" json:"topic"`
	Caption       string     `db:"caption" json:"caption"`
	Hashtags      []string   `db:"hashtags" json:"hashtags"`
	MediaType     string     `db:"media_type" json:"media_type"`
	MediaURL      string     `db:"media_url" json:"media_url,omitempty"`
	Status        string     `db:"status" json:"status"` // draft, scheduled, posted, rejected
	ScheduledTime *time.Time `db:"scheduled_time" json:"scheduled_time,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPosted    = "posted"
	PostStatusRejected  = "rejected"
)

const (
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeTextOnly = "text_only"
)
