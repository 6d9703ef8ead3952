package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/counseling-platform/scheduling-service/internal/models"
	"github.com/counseling-platform/scheduling-service/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CounselorConsumer keeps the local counselor projection in sync with the
// identity service. Profile events are upserted; locally-owned rating
// columns are never touched by the sync.
type CounselorConsumer struct {
	repo repository.CounselorRepository
}

func NewCounselorConsumer(repo repository.CounselorRepository) *CounselorConsumer {
	return &CounselorConsumer{repo: repo}
}

type counselorEvent struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Start listens for messages until the channel closes.
func (cc *CounselorConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			cc.handleMessage(msg)
		}
		log.Println("[CounselorConsumer] channel closed, stopping consumer")
	}()
}

func (cc *CounselorConsumer) handleMessage(msg amqp.Delivery) {
	var evt counselorEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		log.Printf("[CounselorConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}
	if evt.ID == 0 {
		log.Printf("[CounselorConsumer] dropping event without id")
		msg.Nack(false, false)
		return
	}

	counselor := &models.Counselor{ID: evt.ID, Name: evt.Name}
	if err := cc.repo.Upsert(context.Background(), counselor); err != nil {
		log.Printf("[CounselorConsumer] failed to upsert counselor %d: %v", evt.ID, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[CounselorConsumer] synced counselor %d: %s", evt.ID, evt.Name)
	msg.Ack(false)
}
