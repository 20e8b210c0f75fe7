// Package controller implements the service layer of the observatory: a
// generic CRUD service per resource, plus the country, user and
// company-trend services. Every successful mutation emits a change event.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/events"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"go.uber.org/zap"
)

// SearchLimit caps the number of rows returned by a prefix search.
const SearchLimit = 20

type EventProducer interface {
	Produce(eventType events.EventType, resource, key string, payload any)
}

// Repository defines the storage interface for one integer-keyed entity.
type Repository[M models.Entity] interface {
	List(ctx context.Context) ([]M, error)
	Get(ctx context.Context, id uint) (*M, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Search(ctx context.Context, term string, limit int) ([]M, error)
	Create(ctx context.Context, row *M) error
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

// Service provides CRUD operations over one resource and publishes a change
// event after each successful mutation.
type Service[M models.Entity] struct {
	resource string
	repo     Repository[M]
	producer EventProducer
	logger   *zap.Logger
}

// NewService constructs a Service. resource names the entity in events and logs.
func NewService[M models.Entity](resource string, repo Repository[M], producer EventProducer, logger *zap.Logger) *Service[M] {
	return &Service[M]{
		resource: resource,
		repo:     repo,
		producer: producer,
		logger:   logger.Named(resource + "_service"),
	}
}

func (s *Service[M]) Resource() string {
	return s.resource
}

func (s *Service[M]) List(ctx context.Context) ([]M, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.resource, err)
	}
	if rows == nil {
		rows = []M{}
	}
	return rows, nil
}

// Get retrieves a row by ID, returning ErrNotFound if absent.
func (s *Service[M]) Get(ctx context.Context, id uint) (*M, error) {
	row, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.resource, err)
	}
	return row, nil
}

func (s *Service[M]) Exists(ctx context.Context, id uint) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", s.resource, err)
	}
	return ok, nil
}

// Search returns up to SearchLimit rows whose search field starts with term.
// No matches is reported as ErrNotFound.
func (s *Service[M]) Search(ctx context.Context, term string) ([]M, error) {
	rows, err := s.repo.Search(ctx, term, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", s.resource, err)
	}
	if len(rows) == 0 {
		return nil, e.ErrNotFound
	}
	return rows, nil
}

func (s *Service[M]) Create(ctx context.Context, row *M) (*M, error) {
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.resource, err)
	}
	s.producer.Produce(events.Created, s.resource, key(*row), row)
	return row, nil
}

// Update writes the given columns, then fetches the refreshed row for
// returning and event production.
func (s *Service[M]) Update(ctx context.Context, id uint, fields map[string]any) (*M, error) {
	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to update %s: %w", s.resource, err)
		}
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to get row after update",
			zap.Error(err),
			zap.Uint("id", id),
		)
		return nil, fmt.Errorf("failed to get %s: %w", s.resource, err)
	}
	if len(fields) > 0 {
		s.producer.Produce(events.Updated, s.resource, key(*updated), updated)
	}
	return updated, nil
}

// Delete removes a row by ID and fires a deletion event.
func (s *Service[M]) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete %s: %w", s.resource, err)
	}
	s.producer.Produce(events.Deleted, s.resource, strconv.FormatUint(uint64(id), 10), nil)
	return nil
}

func key(row models.Entity) string {
	return strconv.FormatUint(uint64(row.PrimaryKey()), 10)
}
