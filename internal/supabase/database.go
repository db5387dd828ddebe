package supabase

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"proofgen-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// GetOrderDetail fetches an order joined with its customer and design files.
// Malformed rows (bad ids, bad products JSON) are rejected here so the
// pipeline only ever sees well-formed records.
func (d *DatabaseClient) GetOrderDetail(orderID string) (*models.OrderDetail, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", orderID, err)
	}

	var (
		detail      models.OrderDetail
		productsRaw []byte
		mockupIDs   pq.StringArray
		customer    models.Customer
	)
	err = d.db.QueryRow(`
		SELECT o.id, o.customer_id, o.order_number, o.products, o.needs_digitizing,
		       o.designed_by_66, o.mockup_ids, o.status, o.created_at, o.updated_at,
		       c.id, c.name, c.email, c.phone, c.company
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id).Scan(
		&detail.ID, &detail.CustomerID, &detail.OrderNumber, &productsRaw, &detail.NeedsDigitizing,
		&detail.DesignedBy66, &mockupIDs, &detail.Status, &detail.CreatedAt, &detail.UpdatedAt,
		&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.Company,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	detail.Customer = &customer

	if len(productsRaw) > 0 {
		if err := json.Unmarshal(productsRaw, &detail.Products); err != nil {
			return nil, fmt.Errorf("malformed products on order %s: %w", orderID, err)
		}
	}
	for _, raw := range mockupIDs {
		mid, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed mockup id %q on order %s: %w", raw, orderID, err)
		}
		detail.MockupIDs = append(detail.MockupIDs, mid)
	}

	rows, err := d.db.Query(`
		SELECT id, order_id, filename, storage_path, mime_type, placement, created_at
		FROM design_files
		WHERE order_id = $1
		ORDER BY created_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get design files for order %s: %w", orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var df models.DesignFile
		if err := rows.Scan(&df.ID, &df.OrderID, &df.Filename, &df.StoragePath,
			&df.MimeType, &df.Placement, &df.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan design file: %w", err)
		}
		detail.DesignFiles = append(detail.DesignFiles, df)
	}

	return &detail, rows.Err()
}

// GetMockupBinding returns nil without error when no binding exists for the SKU.
func (d *DatabaseClient) GetMockupBinding(sku string) (*models.MockupBinding, error) {
	var binding models.MockupBinding
	err := d.db.QueryRow(`
		SELECT sku, mockup_uuid, smart_object_uuid
		FROM product_mockup_bindings
		WHERE sku = $1
	`, sku).Scan(&binding.SKU, &binding.MockupUUID, &binding.SmartObjectUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get binding for sku %s: %w", sku, err)
	}
	return &binding, nil
}

func (d *DatabaseClient) GetGeneratedMockups(ids []uuid.UUID) ([]models.GeneratedMockup, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	rows, err := d.db.Query(`
		SELECT id, customer_id, order_id, design_file_id, mockup_uuid, mockup_name,
		       smart_object_uuid, storage_path, filename, mime_type, file_size, created_by, created_at
		FROM generated_mockups
		WHERE id = ANY($1)
	`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to get generated mockups: %w", err)
	}
	defer rows.Close()

	var mockups []models.GeneratedMockup
	for rows.Next() {
		var m models.GeneratedMockup
		if err := rows.Scan(&m.ID, &m.CustomerID, &m.OrderID, &m.DesignFileID, &m.MockupUUID,
			&m.MockupName, &m.SmartObjectUUID, &m.StoragePath, &m.Filename, &m.MimeType,
			&m.FileSize, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generated mockup: %w", err)
		}
		mockups = append(mockups, m)
	}

	return mockups, rows.Err()
}

func (d *DatabaseClient) GetDesignFile(fileID uuid.UUID) (*models.DesignFile, error) {
	var df models.DesignFile
	err := d.db.QueryRow(`
		SELECT id, order_id, filename, storage_path, mime_type, placement, created_at
		FROM design_files
		WHERE id = $1
	`, fileID).Scan(&df.ID, &df.OrderID, &df.Filename, &df.StoragePath,
		&df.MimeType, &df.Placement, &df.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("design file not found: %s", fileID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get design file %s: %w", fileID, err)
	}
	return &df, nil
}

// CreateGeneratedMockup inserts a mockup record. The storage object at
// m.StoragePath must already exist before this is called.
func (d *DatabaseClient) CreateGeneratedMockup(m *models.GeneratedMockup) error {
	err := d.db.QueryRow(`
		INSERT INTO generated_mockups
			(customer_id, order_id, design_file_id, mockup_uuid, mockup_name,
			 smart_object_uuid, storage_path, filename, mime_type, file_size, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, m.CustomerID, m.OrderID, m.DesignFileID, m.MockupUUID, m.MockupName,
		m.SmartObjectUUID, m.StoragePath, m.Filename, m.MimeType, m.FileSize, m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create generated mockup: %w", err)
	}
	return nil
}

// CreateProof inserts a proof row. The uploaded PDF must already exist at
// p.PdfPath before this is called (write-after-upload ordering).
func (d *DatabaseClient) CreateProof(p *models.Proof) error {
	err := d.db.QueryRow(`
		INSERT INTO proofs (order_id, version, pdf_path, pdf_signed_url, status, approval_token, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, p.OrderID, p.Version, p.PdfPath, p.PdfSignedURL, p.Status, p.ApprovalToken, p.Notes,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create proof record: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetProof(proofID uuid.UUID) (*models.Proof, error) {
	var p models.Proof
	err := d.db.QueryRow(`
		SELECT id, order_id, version, pdf_path, pdf_signed_url, status, approval_token, notes, approved_at, created_at
		FROM proofs
		WHERE id = $1
	`, proofID).Scan(&p.ID, &p.OrderID, &p.Version, &p.PdfPath, &p.PdfSignedURL,
		&p.Status, &p.ApprovalToken, &p.Notes, &p.ApprovedAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("proof not found: %s", proofID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proof %s: %w", proofID, err)
	}
	return &p, nil
}

// GetProofByToken fetches a proof only when the approval token matches, for
// the public viewer.
func (d *DatabaseClient) GetProofByToken(proofID uuid.UUID, token string) (*models.Proof, error) {
	var p models.Proof
	err := d.db.QueryRow(`
		SELECT id, order_id, version, pdf_path, pdf_signed_url, status, approval_token, notes, approved_at, created_at
		FROM proofs
		WHERE id = $1 AND approval_token = $2
	`, proofID, token).Scan(&p.ID, &p.OrderID, &p.Version, &p.PdfPath, &p.PdfSignedURL,
		&p.Status, &p.ApprovalToken, &p.Notes, &p.ApprovedAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("proof not found: %s", proofID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proof %s: %w", proofID, err)
	}
	return &p, nil
}

func (d *DatabaseClient) ListProofs() ([]models.Proof, error) {
	rows, err := d.db.Query(`
		SELECT id, order_id, version, pdf_path, pdf_signed_url, status, approval_token, notes, approved_at, created_at
		FROM proofs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	defer rows.Close()

	var proofs []models.Proof
	for rows.Next() {
		var p models.Proof
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Version, &p.PdfPath, &p.PdfSignedURL,
			&p.Status, &p.ApprovalToken, &p.Notes, &p.ApprovedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan proof: %w", err)
		}
		proofs = append(proofs, p)
	}

	return proofs, rows.Err()
}

func (d *DatabaseClient) ApproveProof(proofID uuid.UUID, token string) error {
	res, err := d.db.Exec(`
		UPDATE proofs
		SET status = 'approved', approved_at = NOW()
		WHERE id = $1 AND approval_token = $2
	`, proofID, token)
	if err != nil {
		return fmt.Errorf("failed to approve proof %s: %w", proofID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("proof not found: %s", proofID)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
