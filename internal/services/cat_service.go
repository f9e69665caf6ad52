// Package services – CatService
//
// This file implements CatService, the query surface of the cat store. Each
// method validates its input, bounds the call with Timeout and runs exactly
// one repository operation through metrics.Track under a fixed operation
// name, so every store call is counted and timed with labels
// {operation, table="cats"}.
//
// Store errors are returned as produced by the repository (see repo.StoreError).
// The only translation is IncrementLikes' not-found, surfaced as ErrCatNotFound.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-cat-service/internal/domain"
	"github.com/tbourn/go-cat-service/internal/metrics"
	"github.com/tbourn/go-cat-service/internal/repo"
)

// Operation names reported to the metrics observer.
const (
	OpInit          = "init"
	OpSave          = "save"
	OpLike          = "like"
	OpSelectTop     = "select_top"
	OpSelectHistory = "select_history"
	OpSelectByID    = "select_by_id"
	OpSelectByURL   = "select_by_url"

	// OpCount backs the cats_total gauge refreshed by /health.
	OpCount = "count"
)

// Operations lists every operation name, for metrics preloading.
var Operations = []string{
	OpInit, OpSave, OpLike, OpSelectTop, OpSelectHistory, OpSelectByID, OpSelectByURL, OpCount,
}

// Limits for the list queries.
const (
	DefaultTopLimit     = 5
	DefaultHistoryLimit = 10
	MaxLimit            = 100
)

// CatRepo defines the repository contract required by CatService.
type CatRepo interface {
	// EnsureSchema creates the backing table if absent.
	EnsureSchema(ctx context.Context, db *gorm.DB) error

	// UpsertCatByURL inserts url with shown=1 or increments shown.
	UpsertCatByURL(ctx context.Context, db *gorm.DB, url string) (domain.Cat, error)

	// IncrementLikes adds a like; repo.ErrNotFound when id is unknown.
	IncrementLikes(ctx context.Context, db *gorm.DB, id int64) error

	TopCatsByLikes(ctx context.Context, db *gorm.DB, limit int) ([]domain.Cat, error)
	RecentCats(ctx context.Context, db *gorm.DB, limit int) ([]domain.Cat, error)
	GetCatByID(ctx context.Context, db *gorm.DB, id int64) (domain.Cat, bool, error)
	GetCatByURL(ctx context.Context, db *gorm.DB, url string) (domain.Cat, bool, error)
	CountCats(ctx context.Context, db *gorm.DB) (int64, error)
}

// StoreRepo adapts the repo package's free functions to CatRepo.
type StoreRepo struct{}

func (StoreRepo) EnsureSchema(ctx context.Context, db *gorm.DB) error {
	return repo.EnsureSchema(ctx, db)
}

func (StoreRepo) UpsertCatByURL(ctx context.Context, db *gorm.DB, url string) (domain.Cat, error) {
	return repo.UpsertCatByURL(ctx, db, url)
}

func (StoreRepo) IncrementLikes(ctx context.Context, db *gorm.DB, id int64) error {
	return repo.IncrementLikes(ctx, db, id)
}

func (StoreRepo) TopCatsByLikes(ctx context.Context, db *gorm.DB, limit int) ([]domain.Cat, error) {
	return repo.TopCatsByLikes(ctx, db, limit)
}

func (StoreRepo) RecentCats(ctx context.Context, db *gorm.DB, limit int) ([]domain.Cat, error) {
	return repo.RecentCats(ctx, db, limit)
}

func (StoreRepo) GetCatByID(ctx context.Context, db *gorm.DB, id int64) (domain.Cat, bool, error) {
	return repo.GetCatByID(ctx, db, id)
}

func (StoreRepo) GetCatByURL(ctx context.Context, db *gorm.DB, url string) (domain.Cat, bool, error) {
	return repo.GetCatByURL(ctx, db, url)
}

func (StoreRepo) CountCats(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountCats(ctx, db)
}

// CatService exposes the named store operations with their default limits.
// It is safe for concurrent use; all fields are read-only after construction.
type CatService struct {
	// DB is the shared GORM pool.
	DB *gorm.DB
	// Repo is the store implementation, StoreRepo in production.
	Repo CatRepo
	// Observer receives one report per store call; nil disables metrics.
	Observer metrics.Observer
	// Timeout bounds each store call; <= 0 means only the caller's ctx applies.
	Timeout time.Duration
}

// NewCatService wires the production repository to db. obs may be nil.
func NewCatService(db *gorm.DB, obs metrics.Observer, timeout time.Duration) *CatService {
	return &CatService{
		DB:       db,
		Repo:     StoreRepo{},
		Observer: obs,
		Timeout:  timeout,
	}
}

// Init creates the schema if needed. Call once at startup.
func (s *CatService) Init(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return metrics.TrackErr(s.Observer, OpInit, domain.CatsTable, func() error {
		return s.Repo.EnsureSchema(ctx, s.DB)
	})
}

// Save records one showing of url and returns the updated row.
func (s *CatService) Save(ctx context.Context, url string) (domain.Cat, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.Cat{}, ErrInvalidURL
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return metrics.Track(s.Observer, OpSave, domain.CatsTable, func() (domain.Cat, error) {
		return s.Repo.UpsertCatByURL(ctx, s.DB, url)
	})
}

// Like adds one like to the cat with the given id.
func (s *CatService) Like(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrInvalidID
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	err := metrics.TrackErr(s.Observer, OpLike, domain.CatsTable, func() error {
		return s.Repo.IncrementLikes(ctx, s.DB, id)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCatNotFound
	}
	return err
}

// Top returns up to limit cats ordered by likes, then shown, descending.
func (s *CatService) Top(ctx context.Context, limit int) ([]domain.Cat, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return metrics.Track(s.Observer, OpSelectTop, domain.CatsTable, func() ([]domain.Cat, error) {
		return s.Repo.TopCatsByLikes(ctx, s.DB, limit)
	})
}

// History returns up to limit cats, most recently created first.
func (s *CatService) History(ctx context.Context, limit int) ([]domain.Cat, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return metrics.Track(s.Observer, OpSelectHistory, domain.CatsTable, func() ([]domain.Cat, error) {
		return s.Repo.RecentCats(ctx, s.DB, limit)
	})
}

// ByID looks a cat up by id. found is false when no row matches.
func (s *CatService) ByID(ctx context.Context, id int64) (cat domain.Cat, found bool, err error) {
	if id < 1 {
		return domain.Cat{}, false, ErrInvalidID
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	r, err := metrics.Track(s.Observer, OpSelectByID, domain.CatsTable, func() (lookup, error) {
		c, ok, err := s.Repo.GetCatByID(ctx, s.DB, id)
		return lookup{c, ok}, err
	})
	return r.cat, r.found, err
}

// ByURL looks a cat up by its picture URL. found is false when no row matches.
func (s *CatService) ByURL(ctx context.Context, url string) (cat domain.Cat, found bool, err error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.Cat{}, false, ErrInvalidURL
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()
	r, err := metrics.Track(s.Observer, OpSelectByURL, domain.CatsTable, func() (lookup, error) {
		c, ok, err := s.Repo.GetCatByURL(ctx, s.DB, url)
		return lookup{c, ok}, err
	})
	return r.cat, r.found, err
}

// Count returns the number of stored pictures.
func (s *CatService) Count(ctx context.Context) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return metrics.Track(s.Observer, OpCount, domain.CatsTable, func() (int64, error) {
		return s.Repo.CountCats(ctx, s.DB)
	})
}

type lookup struct {
	cat   domain.Cat
	found bool
}

func (s *CatService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func validateLimit(limit int) error {
	if limit < 0 || limit > MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}
