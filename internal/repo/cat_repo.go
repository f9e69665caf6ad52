// Package repo implements the cat counter store backed by GORM.
//
// Every function issues exactly one parameterized SQL statement and accepts a
// *gorm.DB handle, so it works equally on the shared pool or inside a
// transaction. There is no business logic here: limits and id validation live
// in services.CatService.
//
// Error semantics:
//   - Lookups report absence as (zero, false, nil), never as an error.
//   - IncrementLikes returns ErrNotFound when no row has the given id.
//   - Any storage failure comes back as *StoreError classified as
//     ErrStoreUnavailable (or ErrConstraintViolation), wrapping the driver error.
//
// Functions:
//
//   - UpsertCatByURL(ctx, db, url) -> domain.Cat, error
//     Inserts with shown=1 or bumps shown on the existing row, atomically.
//
//   - IncrementLikes(ctx, db, id) -> error
//
//   - TopCatsByLikes(ctx, db, limit) -> []domain.Cat, error
//     Ordered by likes desc, then shown desc, then id asc.
//
//   - RecentCats(ctx, db, limit) -> []domain.Cat, error
//     Ordered by id desc (most recently created first).
//
//   - GetCatByID / GetCatByURL -> domain.Cat, bool, error
//
//   - CountCats(ctx, db) -> int64, error
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-cat-service/internal/domain"
)

const (
	sqlUpsertByURL = `INSERT INTO cats (url, likes, shown) VALUES (?, 0, 1)
ON CONFLICT (url) DO UPDATE SET shown = cats.shown + 1
RETURNING id, url, likes, shown`

	sqlIncrementLikes = `UPDATE cats SET likes = likes + 1 WHERE id = ?`

	sqlTopByLikes = `SELECT id, url, likes, shown FROM cats
ORDER BY likes DESC, shown DESC, id ASC LIMIT ?`

	sqlRecent = `SELECT id, url, likes, shown FROM cats ORDER BY id DESC LIMIT ?`
)

// UpsertCatByURL records one showing of url. A new url gets a row with
// shown=1 and likes=0; a known url has its shown counter incremented in the
// same statement. The post-mutation row is returned.
func UpsertCatByURL(ctx context.Context, db *gorm.DB, url string) (domain.Cat, error) {
	var c domain.Cat
	res := db.WithContext(ctx).Raw(sqlUpsertByURL, url).Scan(&c)
	if res.Error != nil {
		return domain.Cat{}, classify("upsert", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Cat{}, &StoreError{Op: "upsert", Kind: ErrStoreUnavailable, Err: errors.New("upsert returned no row")}
	}
	return c, nil
}

// IncrementLikes adds one like to the row with the given id. If no row
// matches it returns ErrNotFound.
func IncrementLikes(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Exec(sqlIncrementLikes, id)
	if res.Error != nil {
		return classify("increment_likes", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TopCatsByLikes returns up to limit rows, most liked first. Equal likes are
// ordered by shown descending. A zero limit yields an empty slice.
func TopCatsByLikes(ctx context.Context, db *gorm.DB, limit int) ([]domain.Cat, error) {
	return selectCats(ctx, db, "top_by_likes", sqlTopByLikes, limit)
}

// RecentCats returns up to limit rows, newest id first.
func RecentCats(ctx context.Context, db *gorm.DB, limit int) ([]domain.Cat, error) {
	return selectCats(ctx, db, "recent", sqlRecent, limit)
}

func selectCats(ctx context.Context, db *gorm.DB, op, query string, limit int) ([]domain.Cat, error) {
	out := []domain.Cat{}
	if err := db.WithContext(ctx).Raw(query, limit).Scan(&out).Error; err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// GetCatByID fetches a single row by primary key.
func GetCatByID(ctx context.Context, db *gorm.DB, id int64) (domain.Cat, bool, error) {
	return getCat(ctx, db, "get_by_id", "id = ?", id)
}

// GetCatByURL fetches a single row by its unique URL.
func GetCatByURL(ctx context.Context, db *gorm.DB, url string) (domain.Cat, bool, error) {
	return getCat(ctx, db, "get_by_url", "url = ?", url)
}

func getCat(ctx context.Context, db *gorm.DB, op, where string, arg any) (domain.Cat, bool, error) {
	var c domain.Cat
	err := db.WithContext(ctx).Where(where, arg).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Cat{}, false, nil
	}
	if err != nil {
		return domain.Cat{}, false, classify(op, err)
	}
	return c, true, nil
}

// CountCats returns the number of distinct URLs stored.
func CountCats(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Cat{}).Count(&total).Error
	return total, classify("count", err)
}
