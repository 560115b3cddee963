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
	msgQuoteNotFound      = "Quote not found"
	msgSupplyFetchFailed  = "Error fetching supply items"
	msgSupplyCreateFailed = "Error creating supply item"
	msgSupplyUpdateFailed = "Error updating supply item"
	msgSupplyDeleteFailed = "Error deleting supply item"
)

// ListSupplyItems returns the supply lines of a quote. An unknown quote has none.
func (s *Service) ListSupplyItems(ctx context.Context, quoteID string) ([]transport.SupplyItem, error) {
	items, err := s.repo.ListSupplyItems(ctx, quoteID)
	if err != nil {
		return nil, storageError(msgSupplyFetchFailed, err)
	}
	return mapping.SupplyItemsToExternal(items), nil
}

// GetSupplyItem returns one supply line by its own id.
func (s *Service) GetSupplyItem(ctx context.Context, id string) (transport.SupplyItem, error) {
	item, err := s.repo.GetSupplyItem(ctx, id)
	if err != nil {
		return transport.SupplyItem{}, storageError(msgSupplyFetchFailed, err)
	}
	return mapping.SupplyItemToExternal(item), nil
}

// CreateSupplyItem adds a supply line to an existing quote.
func (s *Service) CreateSupplyItem(ctx context.Context, quoteID string, in transport.SupplyItemInput) (transport.SupplyItem, error) {
	quoteID = strings.TrimSpace(quoteID)
	if err := s.val.ValidateSupplyItem(quoteID, in); err != nil {
		return transport.SupplyItem{}, err
	}

	exists, err := s.repo.Exists(ctx, quoteID)
	if err != nil {
		return transport.SupplyItem{}, storageError(msgSupplyCreateFailed, err)
	}
	if !exists {
		return transport.SupplyItem{}, apperr.NotFound(msgQuoteNotFound)
	}

	row := mapping.SupplyItemFromInput(uuid.NewString(), quoteID, in)
	if err := s.repo.InsertSupplyItem(ctx, row); err != nil {
		return transport.SupplyItem{}, storageError(msgSupplyCreateFailed, err)
	}

	created, err := s.repo.GetSupplyItem(ctx, row.ID)
	if err != nil {
		return transport.SupplyItem{}, storageError(msgSupplyCreateFailed, err)
	}
	return mapping.SupplyItemToExternal(created), nil
}

// UpdateSupplyItem rewrites a supply line. The owning quote is not re-validated.
func (s *Service) UpdateSupplyItem(ctx context.Context, id string, in transport.SupplyItemInput) (transport.SupplyItem, error) {
	if err := s.val.ValidateSupplyItem(id, in); err != nil {
		return transport.SupplyItem{}, err
	}

	if err := s.repo.UpdateSupplyItem(ctx, mapping.SupplyItemFromInput(id, "", in)); err != nil {
		return transport.SupplyItem{}, storageError(msgSupplyUpdateFailed, err)
	}

	updated, err := s.repo.GetSupplyItem(ctx, id)
	if err != nil {
		return transport.SupplyItem{}, storageError(msgSupplyUpdateFailed, err)
	}
	return mapping.SupplyItemToExternal(updated), nil
}

// DeleteSupplyItem removes one supply line.
func (s *Service) DeleteSupplyItem(ctx context.Context, id string) error {
	return storageError(msgSupplyDeleteFailed, s.repo.DeleteSupplyItem(ctx, id))
}
