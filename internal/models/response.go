package models

import "time"

type QueuedResponse struct {
	Message string `json:"message"`
	OrderID string `json:"order_id"`
	Version int    `json:"version"`
}

type ProofResponse struct {
	ID           string     `json:"id"`
	OrderID      string     `json:"order_id"`
	Version      int        `json:"version"`
	PdfPath      string     `json:"pdf_path"`
	PdfSignedURL string     `json:"pdf_signed_url,omitempty"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ProofListResponse struct {
	Proofs []ProofResponse `json:"proofs"`
}

type SignedURLResponse struct {
	SignedURL string `json:"signed_url"`
}

type GeneratedMockupResponse struct {
	ID          string `json:"id"`
	StoragePath string `json:"storage_path"`
	Filename    string `json:"filename"`
	MimeType    string `json:"mime_type"`
	FileSize    int64  `json:"file_size"`
	SignedURL   string `json:"signed_url,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func NewProofResponse(p *Proof) ProofResponse {
	resp := ProofResponse{
		ID:           p.ID.String(),
		OrderID:      p.OrderID.String(),
		Version:      p.Version,
		PdfPath:      p.PdfPath,
		PdfSignedURL: p.PdfSignedURL,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
	}
	if p.Notes.Valid {
		resp.Notes = p.Notes.String
	}
	if p.ApprovedAt.Valid {
		t := p.ApprovedAt.Time
		resp.ApprovedAt = &t
	}
	return resp
}
