package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	OrderNumber     string
	Products        []LineItem
	NeedsDigitizing bool
	DesignedBy66    bool
	MockupIDs       []uuid.UUID
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LineItem is one product entry on an order. ProductID is the SKU used to
// look up a mockup binding.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

type Customer struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Phone   sql.NullString
	Company sql.NullString
}

type DesignFile struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Filename    string
	StoragePath string
	MimeType    string
	Placement   string
	CreatedAt   time.Time
}

// OrderDetail is an order joined with its customer and design files, the unit
// the proof pipeline works on.
type OrderDetail struct {
	Order
	Customer    *Customer
	DesignFiles []DesignFile
}
