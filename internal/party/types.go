package party

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type discriminates the two directions a party can trade in.
type Type string

const (
	// TypeCustomer buys from the business; outstanding balance is receivable.
	TypeCustomer Type = "customer"
	// TypeSupplier sells to the business; outstanding balance is payable.
	TypeSupplier Type = "supplier"
)

// Party is a customer or supplier the business trades with.
type Party struct {
	ID      uuid.UUID `json:"id"`
	Type    Type      `json:"type"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone,omitempty"`
	Address string    `json:"address,omitempty"`

	// Balance is the outstanding amount derived from unpaid document credit.
	Balance decimal.Decimal `json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input is the create/update payload for parties.
type Input struct {
	Type    string `json:"type" validate:"required,oneof=customer supplier"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// ListParams captures filters for party listing.
type ListParams struct {
	Type  string
	Query string
	Page  int
	Limit int
}

// ListResult contains list data plus pagination metadata.
type ListResult struct {
	Parties []Party
	Total   int64
	Page    int
	Limit   int
}
