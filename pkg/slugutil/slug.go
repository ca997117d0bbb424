package slugutil

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Unique slugifies base and suffixes it until no row of table carries the
// slug. Each collision appends the next counter to the previous candidate.
func Unique(db *gorm.DB, table, base string) (string, error) {
	candidate := slug.Make(base)
	suffix := 1
	for {
		var count int64
		if err := db.Table(table).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("check slug uniqueness: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", candidate, suffix)
		suffix++
	}
}
