package queue

import (
	"github.com/nichelab/brandbrain/internal/activity"
	"github.com/nichelab/brandbrain/internal/service"
)

// Queue publishes scheduled posts when their asynq task fires.
type Queue struct {
	ps  service.PostService
	log *activity.Log
}

func NewQueue(ps service.PostService, log *activity.Log) *Queue {
	return &Queue{
		ps:  ps,
		log: log,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID string `json:"post_id"`
}
