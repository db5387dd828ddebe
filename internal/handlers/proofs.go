package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"proofgen-backend/internal/config"
	"proofgen-backend/internal/models"
	"proofgen-backend/internal/queue"
	"proofgen-backend/internal/supabase"
)

type ProofsHandler struct {
	queue   *queue.Queue
	db      *supabase.DatabaseClient
	storage *supabase.StorageClient
	cfg     *config.Config
}

func NewProofsHandler(q *queue.Queue, db *supabase.DatabaseClient, storage *supabase.StorageClient, cfg *config.Config) *ProofsHandler {
	return &ProofsHandler{
		queue:   q,
		db:      db,
		storage: storage,
		cfg:     cfg,
	}
}

// Generate godoc
// @Summary     Queue proof generation
// @Description Enqueues an asynchronous proof-generation job for an order
// @Tags        proofs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Order ID (UUID)"
// @Param       request body models.GenerateProofRequest false "Version and notes"
// @Success     202 {object} models.QueuedResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /proofs/{id}/generate [post]
func (h *ProofsHandler) Generate(c *gin.Context) {
	orderID := c.Param("id")
	if _, err := uuid.Parse(orderID); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid order id"})
		return
	}

	var req models.GenerateProofRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}
	if req.Version < 1 {
		req.Version = 1
	}

	if err := h.queue.Enqueue(queue.Job{OrderID: orderID, Version: req.Version, Notes: req.Notes}); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "failed to queue proof generation",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, models.QueuedResponse{
		Message: "Proof generation queued",
		OrderID: orderID,
		Version: req.Version,
	})
}

// List godoc
// @Summary     List proofs
// @Tags        proofs
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ProofListResponse
// @Router      /proofs [get]
func (h *ProofsHandler) List(c *gin.Context) {
	proofs, err := h.db.ListProofs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list proofs",
			Message: err.Error(),
		})
		return
	}

	resp := models.ProofListResponse{Proofs: make([]models.ProofResponse, 0, len(proofs))}
	for i := range proofs {
		resp.Proofs = append(resp.Proofs, models.NewProofResponse(&proofs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Signed godoc
// @Summary     Refresh a proof's signed URL
// @Tags        proofs
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Proof ID (UUID)"
// @Success     200 {object} models.SignedURLResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /proofs/{id}/signed [get]
func (h *ProofsHandler) Signed(c *gin.Context) {
	proofID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid proof id"})
		return
	}

	record, err := h.db.GetProof(proofID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "proof not found", Message: err.Error()})
		return
	}

	signedURL, err := h.storage.SignedURL(h.cfg.BucketProofs, record.PdfPath, 86400)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create signed url",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SignedURLResponse{SignedURL: signedURL})
}

// PublicView godoc
// @Summary     View a proof by approval token
// @Description Public endpoint for customers; requires the approval token issued with the proof
// @Tags        proofs
// @Produce     json
// @Param       id path string true "Proof ID (UUID)"
// @Param       token query string true "Approval token"
// @Success     200 {object} models.ProofResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /public/proofs/{id} [get]
func (h *ProofsHandler) PublicView(c *gin.Context) {
	proofID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid proof id"})
		return
	}

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "token required"})
		return
	}

	record, err := h.db.GetProofByToken(proofID, token)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "proof not found or invalid token"})
		return
	}

	signedURL, err := h.storage.SignedURL(h.cfg.BucketProofs, record.PdfPath, 86400)
	if err == nil {
		record.PdfSignedURL = signedURL
	}

	c.JSON(http.StatusOK, models.NewProofResponse(record))
}

// Approve godoc
// @Summary     Approve a proof
// @Description Public endpoint; marks the proof approved and stamps the approval time
// @Tags        proofs
// @Produce     json
// @Param       id path string true "Proof ID (UUID)"
// @Param       token query string true "Approval token"
// @Success     200 {object} map[string]string
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /public/proofs/{id}/approve [post]
func (h *ProofsHandler) Approve(c *gin.Context) {
	proofID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid proof id"})
		return
	}

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "token required"})
		return
	}

	if err := h.db.ApproveProof(proofID, token); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "proof not found or invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proof approved"})
}
