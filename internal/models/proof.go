package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	ProofStatusReady    = "ready"
	ProofStatusApproved = "approved"
)

type Proof struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	Version       int
	PdfPath       string
	PdfSignedURL  string
	Status        string
	ApprovalToken string
	Notes         sql.NullString
	ApprovedAt    sql.NullTime
	CreatedAt     time.Time
}
