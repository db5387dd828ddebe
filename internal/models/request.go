package models

type GenerateProofRequest struct {
	// Version is the proof version to produce. Defaults to 1.
	Version int    `json:"version,omitempty" example:"1"`
	Notes   string `json:"notes,omitempty"`
}

type GenerateMockupRequest struct {
	DesignFileID    string `json:"design_file_id" binding:"required"`
	MockupUUID      string `json:"mockup_uuid" binding:"required"`
	SmartObjectUUID string `json:"smart_object_uuid" binding:"required"`
	CustomerID      string `json:"customer_id,omitempty"`
	OrderID         string `json:"order_id,omitempty"`
	MockupName      string `json:"mockup_name,omitempty"`
}

type TestMockupRequest struct {
	StoragePath     string `json:"storage_path" binding:"required"`
	MockupUUID      string `json:"mockup_uuid,omitempty"`
	SmartObjectUUID string `json:"smart_object_uuid,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
