// Package domain defines the persistence model for cat pictures. The type is
// mapped with GORM and forms the core data layer of the cat service.
package domain

// CatsTable is the name of the backing table. It doubles as the "table" label
// on data-access metrics.
const CatsTable = "cats"

// Cat is one row per unique picture URL.
//
// Fields:
//   - ID: surrogate primary key, assigned at first insert and never reused.
//   - URL: the image's permanent locator; unique, the natural key for upserts.
//   - Likes: number of explicit like actions; only the like path increments it.
//   - Shown: number of times the URL was served; 1 on first save, +1 per re-save.
//
// Rows are never deleted: counters only grow.
type Cat struct {
	ID    int64  `json:"id"    gorm:"primaryKey;autoIncrement"`
	URL   string `json:"url"   gorm:"type:text;not null;uniqueIndex"`
	Likes int64  `json:"likes" gorm:"not null;default:0"`
	Shown int64  `json:"shown" gorm:"not null;default:0"`
}

// TableName returns the database table name for Cat.
func (Cat) TableName() string { return CatsTable }
