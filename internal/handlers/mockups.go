package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"proofgen-backend/internal/artwork"
	"proofgen-backend/internal/config"
	"proofgen-backend/internal/dynamicmockups"
	"proofgen-backend/internal/middleware"
	"proofgen-backend/internal/models"
	"proofgen-backend/internal/supabase"
)

type MockupsHandler struct {
	client     *dynamicmockups.Client
	db         *supabase.DatabaseClient
	storage    *supabase.StorageClient
	normalizer *artwork.Normalizer
	cfg        *config.Config
	httpClient *http.Client
}

func NewMockupsHandler(client *dynamicmockups.Client, db *supabase.DatabaseClient, storage *supabase.StorageClient, normalizer *artwork.Normalizer, cfg *config.Config) *MockupsHandler {
	return &MockupsHandler{
		client:     client,
		db:         db,
		storage:    storage,
		normalizer: normalizer,
		cfg:        cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// List godoc
// @Summary     List available mockup templates
// @Tags        mockups
// @Produce     json
// @Success     200 {object} map[string][]dynamicmockups.Mockup
// @Router      /mockups/list [get]
func (h *MockupsHandler) List(c *gin.Context) {
	mockups, err := h.client.ListMockups()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list mockups",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mockups": mockups})
}

// Generate godoc
// @Summary     Generate and save a single mockup
// @Description Renders one design file onto a chosen template and stores the result
// @Tags        mockups
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.GenerateMockupRequest true "Design file and template"
// @Success     200 {object} models.GeneratedMockupResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /mockups/generate [post]
func (h *MockupsHandler) Generate(c *gin.Context) {
	var req models.GenerateMockupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "design_file_id, mockup_uuid, and smart_object_uuid required",
			Message: err.Error(),
		})
		return
	}

	designFileID, err := uuid.Parse(req.DesignFileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid design_file_id"})
		return
	}

	designFile, err := h.db.GetDesignFile(designFileID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "design file not found", Message: err.Error()})
		return
	}

	artworkURL, err := h.storage.SignedURL(h.cfg.BucketArtwork, designFile.StoragePath, 3600)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to sign artwork", Message: err.Error()})
		return
	}

	assetURL, err := h.normalizer.Normalize(artworkURL, designFile.MimeType, designFile.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to normalize artwork", Message: err.Error()})
		return
	}

	result, err := h.client.Render(dynamicmockups.RenderRequest{
		MockupUUID:      req.MockupUUID,
		SmartObjectUUID: req.SmartObjectUUID,
		AssetURL:        assetURL,
		ExportLabel:     fmt.Sprintf("%s-%s", orDefault(req.CustomerID, "customer"), req.DesignFileID),
		ImageFormat:     h.cfg.ExportFormat,
		ImageSize:       h.cfg.ExportSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "mockup render failed", Message: err.Error()})
		return
	}

	data, err := h.fetchExport(result.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to download rendered mockup", Message: err.Error()})
		return
	}

	ext := h.cfg.ExportFormat
	storagePath := fmt.Sprintf("%s/%d-%s.%s", orDefault(req.CustomerID, "general"), time.Now().UnixMilli(), designFile.Filename, ext)
	if err := h.storage.Upload(h.cfg.BucketMockups, storagePath, data, "image/"+ext); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store mockup", Message: err.Error()})
		return
	}

	record := &models.GeneratedMockup{
		CustomerID:      parseNullUUID(req.CustomerID),
		OrderID:         parseNullUUID(req.OrderID),
		DesignFileID:    designFileID,
		MockupUUID:      req.MockupUUID,
		SmartObjectUUID: req.SmartObjectUUID,
		StoragePath:     storagePath,
		Filename:        fmt.Sprintf("mockup-%s.%s", designFile.Filename, ext),
		MimeType:        "image/" + ext,
		FileSize:        int64(len(data)),
	}
	if req.MockupName != "" {
		record.MockupName.String = req.MockupName
		record.MockupName.Valid = true
	}
	if userID, exists := c.Get(middleware.UserIDKey); exists {
		record.CreatedBy = parseNullUUID(userID.(string))
	}

	if err := h.db.CreateGeneratedMockup(record); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to save mockup", Message: err.Error()})
		return
	}

	resp := models.GeneratedMockupResponse{
		ID:          record.ID.String(),
		StoragePath: record.StoragePath,
		Filename:    record.Filename,
		MimeType:    record.MimeType,
		FileSize:    record.FileSize,
	}
	if signedURL, err := h.storage.SignedURL(h.cfg.BucketMockups, storagePath, 86400); err == nil {
		resp.SignedURL = signedURL
	}

	c.JSON(http.StatusOK, resp)
}

// Test godoc
// @Summary     Test-render a design file
// @Description Renders a stored design against a template (or the configured default) without persisting anything
// @Tags        mockups
// @Accept      json
// @Produce     json
// @Param       request body models.TestMockupRequest true "Storage path and optional template"
// @Success     200 {object} dynamicmockups.RenderResult
// @Failure     400 {object} models.ErrorResponse
// @Router      /mockups/test [post]
func (h *MockupsHandler) Test(c *gin.Context) {
	var req models.TestMockupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "storage_path required", Message: err.Error()})
		return
	}

	artworkURL, err := h.storage.SignedURL(h.cfg.BucketArtwork, req.StoragePath, 3600)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to sign artwork", Message: err.Error()})
		return
	}

	result, err := h.client.Render(dynamicmockups.RenderRequest{
		MockupUUID:      orDefault(req.MockupUUID, h.cfg.DefaultMockupUUID),
		SmartObjectUUID: orDefault(req.SmartObjectUUID, h.cfg.DefaultSmartUUID),
		AssetURL:        artworkURL,
		ExportLabel:     "test",
		ImageFormat:     h.cfg.ExportFormat,
		ImageSize:       h.cfg.ExportSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "mockup test failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": result.URL, "label": result.Label})
}

func (h *MockupsHandler) fetchExport(exportURL string) ([]byte, error) {
	resp, err := h.httpClient.Get(exportURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch export: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func parseNullUUID(value string) uuid.NullUUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}
