package domain

import "time"

// Product is a catalog entry. Rows are soft deleted via IsDeleted rather
// than removed, so listings must filter on it.
type Product struct {
	ID        string
	Name      string
	IsDeleted bool
	CreatedAt time.Time
}
