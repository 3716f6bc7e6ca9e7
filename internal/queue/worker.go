package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := q.ps.Publish(ctx, payload.PostID); err != nil {
		log.Printf("Error publishing scheduled post %s: %v", payload.PostID, err)
		q.log.Error("Scheduled publish failed: " + err.Error())
		return err
	}

	return nil
}
