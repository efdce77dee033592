// internal/domain/wishlist/service.go
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/kvstore"
)

// ErrInvalidProductID is returned for an empty product id
var ErrInvalidProductID = errors.New("product id is required")

// Service keeps a wishlist of product ids per owner as a JSON array
type Service struct {
	store  kvstore.Store
	logger logrus.FieldLogger
}

// NewService creates a new wishlist service
func NewService(store kvstore.Store, logger logrus.FieldLogger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Key returns the storage key of an owner's wishlist
func Key(owner string) string {
	return "wishlist:" + owner
}

// List returns the owner's product ids in the order they were added. A missing or
// unreadable wishlist is empty.
func (s *Service) List(ctx context.Context, owner string) ([]string, error) {
	data, err := s.store.Get(ctx, Key(owner))
	if errors.Is(err, kvstore.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		s.logger.WithFields(logrus.Fields{
			"owner": owner,
			"error": err,
		}).Warn("Discarding unreadable wishlist")
		return []string{}, nil
	}

	return dedupe(ids), nil
}

// Add appends productID unless it is already present
func (s *Service) Add(ctx context.Context, owner, productID string) ([]string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrInvalidProductID
	}

	ids, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if contains(ids, productID) {
		return ids, nil
	}

	ids = append(ids, productID)
	return ids, s.save(ctx, owner, ids)
}

// Remove drops productID; removing an absent id is a no-op
func (s *Service) Remove(ctx context.Context, owner, productID string) ([]string, error) {
	ids, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !contains(ids, productID) {
		return ids, nil
	}

	kept := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	return kept, s.save(ctx, owner, kept)
}

// Toggle adds productID when absent and removes it otherwise. It reports whether the
// product is in the wishlist afterwards.
func (s *Service) Toggle(ctx context.Context, owner, productID string) (bool, []string, error) {
	ids, err := s.List(ctx, owner)
	if err != nil {
		return false, nil, err
	}

	if contains(ids, productID) {
		ids, err = s.Remove(ctx, owner, productID)
		return false, ids, err
	}

	ids, err = s.Add(ctx, owner, productID)
	return err == nil, ids, err
}

// Contains reports whether productID is in the owner's wishlist
func (s *Service) Contains(ctx context.Context, owner, productID string) (bool, error) {
	ids, err := s.List(ctx, owner)
	if err != nil {
		return false, err
	}
	return contains(ids, productID), nil
}

// Clear removes the owner's wishlist
func (s *Service) Clear(ctx context.Context, owner string) error {
	if err := s.store.Delete(ctx, Key(owner)); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, owner string, ids []string) error {
	if len(ids) == 0 {
		return s.Clear(ctx, owner)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}
	if err := s.store.Set(ctx, Key(owner), data); err != nil {
		return fmt.Errorf("failed to save wishlist: %w", err)
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
