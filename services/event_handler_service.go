package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"study-sync/studysync/broker"
	"study-sync/studysync/database"
	"study-sync/studysync/models"
)

const eventBatchSize = 100

type EventHandlerServiceInterface interface {
	Start(ctx context.Context)
	Stop()
	ProcessPendingEvents(ctx context.Context) (int, error)
}

// EventHandlerService drains the outbox: pending events are published to the
// broker in timestamp order and then marked dispatched.
type EventHandlerService struct {
	db       *database.Database
	producer broker.Producer
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewEventHandlerService(db *database.Database, producer broker.Producer, interval time.Duration) *EventHandlerService {
	if interval <= 0 {
		interval = time.Second
	}
	return &EventHandlerService{
		db:       db,
		producer: producer,
		interval: interval,
	}
}

func (s *EventHandlerService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.isRunning = true
	go s.run(ctx, s.done)
}

func (s *EventHandlerService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
}

func (s *EventHandlerService) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *EventHandlerService) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ProcessPendingEvents(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("failed to process pending events")
			}
		}
	}
}

// ProcessPendingEvents dispatches one batch and reports how many events were
// published. An event whose publish fails stays pending for the next tick.
func (s *EventHandlerService) ProcessPendingEvents(ctx context.Context) (int, error) {
	var events []models.Event
	err := s.db.DB.WithContext(ctx).
		Where("dispatched = ?", false).
		Order("timestamp ASC").
		Limit(eventBatchSize).
		Find(&events).Error
	if err != nil {
		return 0, err
	}

	if len(events) > 0 {
		log.Debug().Int("count", len(events)).Msg("found pending events")
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(ctx, event); err != nil {
			log.Warn().Err(err).Str("event_id", event.ID.String()).Str("event", event.Event).Msg("failed to dispatch event")
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func (s *EventHandlerService) dispatchEvent(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event.Envelope())
	if err != nil {
		return err
	}

	if err := s.producer.Publish(event.Event, payload); err != nil {
		return err
	}

	now := s.db.Now()
	return s.db.DB.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"dispatched":    true,
			"dispatched_at": now,
			"status":        "completed",
		}).Error
}
