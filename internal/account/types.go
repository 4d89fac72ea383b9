package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind discriminates where an account holds its money.
type Kind string

const (
	// KindCash is physical cash on hand.
	KindCash Kind = "cash"
	// KindBank is a bank account.
	KindBank Kind = "bank"
)

// Direction states whether an entry moves money into or out of an account.
type Direction string

const (
	// DirIn credits the account.
	DirIn Direction = "in"
	// DirOut debits the account.
	DirOut Direction = "out"
)

// Account is a cash or bank account tracking a running balance.
type Account struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Kind    Kind            `json:"kind"`
	Balance decimal.Decimal `json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry is a single money movement on an account, usually booked by a
// document payment.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id"`
	DocumentID *uuid.UUID      `json:"document_id,omitempty"`
	Direction  Direction       `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Input is the create/update payload for accounts.
type Input struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Kind string `json:"kind" validate:"required,oneof=cash bank"`
}

// EntryInput is the payload for manual entries.
type EntryInput struct {
	Direction string          `json:"direction" validate:"required,oneof=in out"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note" validate:"omitempty,max=500"`
}
