package service

import (
	"context"
	"errors"

	"chanitec_backend/internal/events"
	"chanitec_backend/internal/quotes/mapping"
	"chanitec_backend/internal/quotes/repository"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/logger"
	"chanitec_backend/platform/validator"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	msgCreateFailed  = "Error creating quote"
	msgFetchFailed   = "Error fetching quotes"
	msgGetFailed     = "Error getting quote"
	msgUpdateFailed  = "Error updating quote"
	msgDeleteFailed  = "Error deleting quote"
	msgConfirmFailed = "Error confirming quote"
	msgReminderFail  = "Error setting reminder date"
	msgConfirmed     = "Quote confirmation updated"
)

// Recorder counts quote outcomes. *httpkit.Metrics implements it.
type Recorder interface {
	QuoteCreated()
	DuplicateRejected()
}

// Service provides business logic for quotes
type Service struct {
	repo     repository.Repository
	val      PayloadValidator
	eventBus events.Bus
	metrics  Recorder
	log      *logger.Logger
}

// New creates a new quotes service
func New(repo repository.Repository, val PayloadValidator, log *logger.Logger) *Service {
	return &Service{repo: repo, val: val, log: log}
}

// SetEventBus injects the bus that receives quote events.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// SetMetrics injects the outcome recorder.
func (s *Service) SetMetrics(m Recorder) {
	s.metrics = m
}

// Create validates the payload, then writes the quote and all of its items in
// one transaction. The returned aggregate is re-read after commit.
func (s *Service) Create(ctx context.Context, in transport.QuoteInput) (transport.QuoteAggregate, error) {
	if err := s.val.ValidateQuote(in); err != nil {
		return transport.QuoteAggregate{}, err
	}

	row := mapping.FromInput(in)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		existingID, err := tx.FindDuplicate(ctx, row)
		if err != nil {
			return err
		}
		if existingID != "" {
			return &DuplicateError{ExistingID: existingID}
		}

		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if err := tx.InsertQuote(ctx, row); err != nil {
			return err
		}
		for _, item := range in.SupplyItems {
			if err := tx.InsertSupplyItem(ctx, mapping.SupplyItemFromInput(uuid.NewString(), row.ID, item)); err != nil {
				return err
			}
		}
		for _, item := range in.LaborItems {
			if err := tx.InsertLaborItem(ctx, mapping.LaborItemFromInput(uuid.NewString(), row.ID, item)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var dup *DuplicateError
		if errors.As(err, &dup) {
			s.recordDuplicate(ctx, dup.ExistingID)
			return transport.QuoteAggregate{}, dup
		}
		return transport.QuoteAggregate{}, storageError(msgCreateFailed, err)
	}

	s.recordCreated()
	s.publish(ctx, events.QuoteCreated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     row.ID,
		SupplyItems: len(in.SupplyItems),
		LaborItems:  len(in.LaborItems),
	})

	agg, err := s.GetByID(ctx, row.ID)
	if err != nil {
		return transport.QuoteAggregate{}, storageError(msgCreateFailed, err)
	}
	return agg, nil
}

// GetByID returns the header with its supply and labor items.
func (s *Service) GetByID(ctx context.Context, id string) (transport.QuoteAggregate, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.QuoteAggregate{}, storageError(msgGetFailed, err)
	}

	var (
		supplies []repository.SupplyItem
		labor    []repository.LaborItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.repo.ListSupplyItems(gctx, id)
		supplies = items
		return err
	})
	g.Go(func() error {
		items, err := s.repo.ListLaborItems(gctx, id)
		labor = items
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.QuoteAggregate{}, storageError(msgGetFailed, err)
	}

	return mapping.AggregateToExternal(quote, supplies, labor), nil
}

// List returns every quote header without items.
func (s *Service) List(ctx context.Context) ([]transport.Quote, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageError(msgFetchFailed, err)
	}
	return mapping.QuotesToExternal(rows), nil
}

// Update rewrites the header only. Items are changed through their own endpoints.
func (s *Service) Update(ctx context.Context, id string, in transport.QuoteInput) (transport.Quote, error) {
	if err := s.val.ValidateQuote(in); err != nil {
		return transport.Quote{}, err
	}

	row := mapping.FromInput(in)
	row.ID = id
	if in.Remise == nil {
		// Keep the stored discount.
		row.Remise = ""
	}

	if err := s.repo.UpdateHeader(ctx, row); err != nil {
		return transport.Quote{}, storageError(msgUpdateFailed, err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.Quote{}, storageError(msgUpdateFailed, err)
	}
	return mapping.ToExternal(updated), nil
}

// SetReminderDate stores the reminder day and returns the updated header.
func (s *Service) SetReminderDate(ctx context.Context, id string, req transport.ReminderRequest) (transport.Quote, error) {
	if err := s.val.ValidateReminder(req); err != nil {
		return transport.Quote{}, err
	}
	date, _ := validator.ParseDate(req.ReminderDate)

	if err := s.repo.SetReminderDate(ctx, id, date); err != nil {
		return transport.Quote{}, storageError(msgReminderFail, err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.Quote{}, storageError(msgReminderFail, err)
	}

	s.publish(ctx, events.QuoteReminderSet{
		BaseEvent:    events.NewBaseEvent(),
		QuoteID:      id,
		ReminderDate: date,
	})
	return mapping.ToExternal(updated), nil
}

// Confirm stores the confirmation flag and reference and acknowledges it.
func (s *Service) Confirm(ctx context.Context, id string, req transport.ConfirmRequest) (transport.ConfirmResponse, error) {
	if err := s.val.ValidateConfirm(req); err != nil {
		return transport.ConfirmResponse{}, err
	}

	if err := s.repo.Confirm(ctx, id, *req.Confirmed, req.NumberChanitec); err != nil {
		return transport.ConfirmResponse{}, storageError(msgConfirmFailed, err)
	}

	s.publish(ctx, events.QuoteConfirmed{
		BaseEvent:      events.NewBaseEvent(),
		QuoteID:        id,
		Confirmed:      *req.Confirmed,
		NumberChanitec: req.NumberChanitec,
	})

	return transport.ConfirmResponse{
		Message:        msgConfirmed,
		ID:             id,
		Confirmed:      *req.Confirmed,
		NumberChanitec: req.NumberChanitec,
	}, nil
}

// Delete removes the quote header. Its items are not deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	return storageError(msgDeleteFailed, s.repo.Delete(ctx, id))
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

func (s *Service) recordCreated() {
	if s.metrics != nil {
		s.metrics.QuoteCreated()
	}
}

func (s *Service) recordDuplicate(ctx context.Context, existingID string) {
	if s.metrics != nil {
		s.metrics.DuplicateRejected()
	}
	if s.log != nil {
		s.log.WithContext(ctx).Debug("duplicate quote rejected", "existingQuoteId", existingID)
	}
}
