package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// MockupBinding maps a product SKU to the Dynamic Mockups template and smart
// object used to render its composite.
type MockupBinding struct {
	SKU             string
	MockupUUID      string
	SmartObjectUUID string
}

type GeneratedMockup struct {
	ID              uuid.UUID
	CustomerID      uuid.NullUUID
	OrderID         uuid.NullUUID
	DesignFileID    uuid.UUID
	MockupUUID      string
	MockupName      sql.NullString
	SmartObjectUUID string
	StoragePath     string
	Filename        string
	MimeType        string
	FileSize        int64
	CreatedBy       uuid.NullUUID
	CreatedAt       time.Time
}
