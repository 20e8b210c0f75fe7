package db

import (
	"context"
	"strings"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SearchScope narrows a query to rows matching a LIKE pattern.
type SearchScope func(tx *gorm.DB, pattern string) *gorm.DB

// Table describes how a Store reaches one entity's table.
type Table struct {
	// IDColumn is the primary key column.
	IDColumn string
	// Preloads names the relations loaded on reads.
	Preloads []string
	// Search applies the prefix match used by Store.Search.
	Search SearchScope
}

// PrefixOn returns a case-insensitive prefix match on column.
func PrefixOn(column string) SearchScope {
	return func(tx *gorm.DB, pattern string) *gorm.DB {
		return tx.Where("LOWER("+column+") LIKE LOWER(?) ESCAPE '\\'", pattern)
	}
}

// Store implements the CRUD operations shared by every integer-keyed entity.
type Store[M models.Entity] struct {
	db    *gorm.DB
	table Table
}

func NewStore[M models.Entity](repo *Repository, table Table) *Store[M] {
	return &Store[M]{db: repo.db, table: table}
}

func (s *Store[M]) read(ctx context.Context) *gorm.DB {
	tx := s.db.WithContext(ctx)
	for _, rel := range s.table.Preloads {
		tx = tx.Preload(rel)
	}
	return tx
}

func (s *Store[M]) List(ctx context.Context) ([]M, error) {
	var rows []M
	result := s.read(ctx).Order(s.table.IDColumn).Find(&rows)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return rows, nil
}

func (s *Store[M]) Get(ctx context.Context, id uint) (*M, error) {
	var row M
	result := s.read(ctx).First(&row, s.table.IDColumn+" = ?", id)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return &row, nil
}

func (s *Store[M]) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(new(M)).
		Where(s.table.IDColumn+" = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, translate(result.Error)
}

// Search returns at most limit rows whose search field starts with term.
// LIKE wildcards inside term match literally.
func (s *Store[M]) Search(ctx context.Context, term string, limit int) ([]M, error) {
	scope := s.table.Search
	if scope == nil {
		return nil, e.ErrInvalidInput
	}
	var rows []M
	result := scope(s.read(ctx), escapeLike(term)+"%").
		Order(s.table.IDColumn).
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return rows, nil
}

func (s *Store[M]) Create(ctx context.Context, row *M) error {
	result := s.db.WithContext(ctx).Omit(clause.Associations).Create(row)
	return translate(result.Error)
}

// Update writes only the given columns; updated_at is refreshed by gorm.
func (s *Store[M]) Update(ctx context.Context, id uint, fields map[string]any) error {
	result := s.db.WithContext(ctx).Model(new(M)).
		Where(s.table.IDColumn+" = ?", id).
		Updates(fields)

	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (s *Store[M]) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(new(M), s.table.IDColumn+" = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
