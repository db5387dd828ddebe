package proof

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"proofgen-backend/internal/config"
	"proofgen-backend/internal/models"
	"proofgen-backend/internal/pdfrender"
)

// Watermark is stamped across every page of a generated proof.
const Watermark = "PROOF - NOT FOR PRODUCTION"

const signedURLTTL = 86400 // 24h

type PDFRenderer interface {
	RenderProof(in pdfrender.Input) ([]byte, error)
}

// Pipeline turns an (orderID, version) job into a persisted proof: load the
// order, assemble its images, render the PDF, upload it, sign it, record it.
// Any stage failure aborts the run; the queue layer owns retries.
type Pipeline struct {
	store     Store
	objects   ObjectStore
	assembler *Assembler
	pdf       PDFRenderer
	cfg       *config.Config
}

func NewPipeline(store Store, objects ObjectStore, assembler *Assembler, pdf PDFRenderer, cfg *config.Config) *Pipeline {
	return &Pipeline{
		store:     store,
		objects:   objects,
		assembler: assembler,
		pdf:       pdf,
		cfg:       cfg,
	}
}

func (p *Pipeline) GenerateProof(orderID string, version int, notes string) (*models.Proof, error) {
	log := logrus.WithFields(logrus.Fields{"order_id": orderID, "version": version})
	log.Info("starting proof generation")

	order, err := p.store.GetOrderDetail(orderID)
	if err != nil {
		return nil, err
	}
	log.WithField("design_files", len(order.DesignFiles)).Info("order loaded")

	files, err := p.assembler.Assemble(order, orderID, version)
	if err != nil {
		return nil, err
	}
	log.WithField("files", len(files)).Info("files assembled")

	pdfData, err := p.pdf.RenderProof(pdfrender.Input{
		Order:     &order.Order,
		Customer:  order.Customer,
		Files:     files,
		Watermark: Watermark,
		Version:   version,
	})
	if err != nil {
		return nil, err
	}
	log.WithField("bytes", len(pdfData)).Info("pdf rendered")

	// The PDF object must exist before the proof row referencing it.
	pdfPath := fmt.Sprintf("%s/v%d/proof.pdf", orderID, version)
	if err := p.objects.Upload(p.cfg.BucketProofs, pdfPath, pdfData, "application/pdf"); err != nil {
		return nil, err
	}
	log.WithField("pdf_path", pdfPath).Info("pdf uploaded")

	signedURL, err := p.objects.SignedURL(p.cfg.BucketProofs, pdfPath, signedURLTTL)
	if err != nil {
		return nil, err
	}

	record := &models.Proof{
		OrderID:       order.ID,
		Version:       version,
		PdfPath:       pdfPath,
		PdfSignedURL:  signedURL,
		Status:        models.ProofStatusReady,
		ApprovalToken: uuid.NewString(),
	}
	if notes != "" {
		record.Notes = sql.NullString{String: notes, Valid: true}
	}
	if err := p.store.CreateProof(record); err != nil {
		return nil, err
	}

	log.WithField("proof_id", record.ID).Info("proof record created")
	return record, nil
}
