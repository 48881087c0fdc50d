package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("customer not found")
	ErrDuplicateIdentity = errors.New("cnic or phone already belongs to another customer")
)

// Customer is a registered account holder. Balances are fully derived: they
// are replaced by recomputation from the linked orders, never incremented in
// place.
type Customer struct {
	ID          uuid.UUID
	Name        string
	CNIC        *string // optional national identity number; unique when present
	Phone       string
	Address     string
	PaidAmount  int64
	Outstanding int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
