package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nesquaeke/smartshop/internal/service"
	"github.com/nesquaeke/smartshop/internal/storage/mq"
	"github.com/nesquaeke/smartshop/pkg/validator"
)

// Service consumes catalog-ingestion events and applies them to storage.
type Service struct {
	logger     *slog.Logger
	validate   validator.Validator
	mqConsumer mq.Consumer
	mqProducer mq.Producer
	ingestSvc  service.IngestService
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	validate validator.Validator,
	mqConsumer mq.Consumer,
	mqProducer mq.Producer,
	ingestSvc service.IngestService,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		validate:   validate,
		mqConsumer: mqConsumer,
		mqProducer: mqProducer,
		ingestSvc:  ingestSvc,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(
		TopicOfferUpserted,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev OfferUpsertedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal offer upserted event: %w", err)
			}

			if err := s.handleOfferUpsertedEvent(ctx, ev); err != nil {
				return fmt.Errorf("handle offer upserted event: %w", err)
			}

			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("register offer upserted event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}
