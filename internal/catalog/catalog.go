package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("item not found")
	ErrDuplicateName = errors.New("item name already exists")
)

// Item is a sellable product. Prices are stored in cents; order creation
// snapshots name and price so later catalog edits never rewrite past orders.
type Item struct {
	ID             uuid.UUID
	Name           string
	RetailPrice    int64
	WholesalePrice int64
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
