package service

import (
	"context"
	"strings"

	"chanitec_backend/internal/quotes/mapping"
	"chanitec_backend/internal/quotes/transport"
	"chanitec_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	msgLaborFetchFailed  = "Error fetching labor items"
	msgLaborCreateFailed = "Error creating labor item"
	msgLaborUpdateFailed = "Error updating labor item"
	msgLaborDeleteFailed = "Error deleting labor item"
)

// ListLaborItems returns the labor lines of a quote. An unknown quote has none.
func (s *Service) ListLaborItems(ctx context.Context, quoteID string) ([]transport.LaborItem, error) {
	items, err := s.repo.ListLaborItems(ctx, quoteID)
	if err != nil {
		return nil, storageError(msgLaborFetchFailed, err)
	}
	return mapping.LaborItemsToExternal(items), nil
}

// GetLaborItem returns one labor line by its own id.
func (s *Service) GetLaborItem(ctx context.Context, id string) (transport.LaborItem, error) {
	item, err := s.repo.GetLaborItem(ctx, id)
	if err != nil {
		return transport.LaborItem{}, storageError(msgLaborFetchFailed, err)
	}
	return mapping.LaborItemToExternal(item), nil
}

// CreateLaborItem adds a labor line to an existing quote.
func (s *Service) CreateLaborItem(ctx context.Context, quoteID string, in transport.LaborItemInput) (transport.LaborItem, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return transport.LaborItem{}, apperr.Validation("Invalid quote_id format")
	}
	if err := s.val.ValidateLaborItem(in); err != nil {
		return transport.LaborItem{}, err
	}

	exists, err := s.repo.Exists(ctx, quoteID)
	if err != nil {
		return transport.LaborItem{}, storageError(msgLaborCreateFailed, err)
	}
	if !exists {
		return transport.LaborItem{}, apperr.NotFound(msgQuoteNotFound)
	}

	row := mapping.LaborItemFromInput(uuid.NewString(), quoteID, in)
	if err := s.repo.InsertLaborItem(ctx, row); err != nil {
		return transport.LaborItem{}, storageError(msgLaborCreateFailed, err)
	}

	created, err := s.repo.GetLaborItem(ctx, row.ID)
	if err != nil {
		return transport.LaborItem{}, storageError(msgLaborCreateFailed, err)
	}
	return mapping.LaborItemToExternal(created), nil
}

// UpdateLaborItem rewrites a labor line with the same positivity rules as create.
func (s *Service) UpdateLaborItem(ctx context.Context, id string, in transport.LaborItemInput) (transport.LaborItem, error) {
	if err := s.val.ValidateLaborItem(in); err != nil {
		return transport.LaborItem{}, err
	}

	if err := s.repo.UpdateLaborItem(ctx, mapping.LaborItemFromInput(id, "", in)); err != nil {
		return transport.LaborItem{}, storageError(msgLaborUpdateFailed, err)
	}

	updated, err := s.repo.GetLaborItem(ctx, id)
	if err != nil {
		return transport.LaborItem{}, storageError(msgLaborUpdateFailed, err)
	}
	return mapping.LaborItemToExternal(updated), nil
}

// DeleteLaborItem removes one labor line.
func (s *Service) DeleteLaborItem(ctx context.Context, id string) error {
	return storageError(msgLaborDeleteFailed, s.repo.DeleteLaborItem(ctx, id))
}
