package transfer

type CaptionUpdate struct {
	PostID   string   `json:"post_id"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags,omitempty"`
}

type ScheduleRequest struct {
	PostID        string `json:"post_id"`
	ScheduledTime string `json:"scheduled_time"`
}

type StatusUpdate struct {
	PostID string `json:"post_id"`
	Status string `json:"status"`
}

type PostIDRequest struct {
	PostID string `json:"post_id"`
}
