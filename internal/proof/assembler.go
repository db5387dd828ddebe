package proof

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"proofgen-backend/internal/config"
	"proofgen-backend/internal/dynamicmockups"
	"proofgen-backend/internal/models"
	"proofgen-backend/internal/pdfrender"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	BindingLookup
	GetOrderDetail(orderID string) (*models.OrderDetail, error)
	GetGeneratedMockups(ids []uuid.UUID) ([]models.GeneratedMockup, error)
	CreateGeneratedMockup(m *models.GeneratedMockup) error
	CreateProof(p *models.Proof) error
}

// ObjectStore is the bucketed artifact-store surface.
type ObjectStore interface {
	Upload(bucket, objectPath string, data []byte, contentType string) error
	Download(bucket, objectPath string) ([]byte, error)
	SignedURL(bucket, objectPath string, expiresIn int) (string, error)
}

type MockupRenderer interface {
	Render(req dynamicmockups.RenderRequest) (*dynamicmockups.RenderResult, error)
}

type Normalizer interface {
	Normalize(assetURL, mimeType, filename string) (string, error)
}

// EntryResult is the outcome for one candidate proof entry. Soft failures
// surface here as a skip reason instead of vanishing in control flow.
type EntryResult struct {
	Entry      pdfrender.FileEntry
	Skipped    bool
	SkipReason string
}

// Assembler builds the ordered list of images that go into a proof PDF.
type Assembler struct {
	store      Store
	objects    ObjectStore
	renderer   MockupRenderer
	normalizer Normalizer
	cfg        *config.Config
	httpClient *http.Client
}

func NewAssembler(store Store, objects ObjectStore, renderer MockupRenderer, normalizer Normalizer, cfg *config.Config) *Assembler {
	return &Assembler{
		store:      store,
		objects:    objects,
		renderer:   renderer,
		normalizer: normalizer,
		cfg:        cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Assemble produces the proof entries for an order under the precedence
// policy: user-selected mockups first (inlined), then artwork references;
// with no usable selection, automatic mockup generation per design file with
// raw artwork as the per-file fallback. Every design file yields at least one
// entry.
func (a *Assembler) Assemble(order *models.OrderDetail, orderID string, version int) ([]pdfrender.FileEntry, error) {
	log := logrus.WithFields(logrus.Fields{"order_id": orderID, "version": version})

	var entries []pdfrender.FileEntry

	if len(order.MockupIDs) > 0 {
		log.WithField("count", len(order.MockupIDs)).Info("loading user-selected mockups")
		for _, result := range a.selectedMockupEntries(order.MockupIDs) {
			if result.Skipped {
				log.WithField("reason", result.SkipReason).Warn("skipping selected mockup")
				continue
			}
			entries = append(entries, result.Entry)
		}
	}

	if len(entries) > 0 {
		// Selected mockups lead; original artwork follows as reference.
		for _, df := range order.DesignFiles {
			artworkURL, err := a.objects.SignedURL(a.cfg.BucketArtwork, df.StoragePath, 3600)
			if err != nil {
				return nil, err
			}
			entries = append(entries, pdfrender.FileEntry{
				Filename:  df.Filename,
				Placement: df.Placement + " (Artwork)",
				URL:       template.URL(artworkURL),
			})
		}
		return entries, nil
	}

	log.Info("no selected mockups, trying automatic generation")
	binding := ResolveBinding(a.store, a.cfg, order)

	for _, df := range order.DesignFiles {
		artworkURL, err := a.objects.SignedURL(a.cfg.BucketArtwork, df.StoragePath, 3600)
		if err != nil {
			return nil, err
		}

		if binding != nil {
			entry, err := a.renderMockup(order, df, binding, artworkURL, orderID, version)
			if err == nil {
				entries = append(entries, *entry)
				continue
			}
			log.WithError(err).WithField("filename", df.Filename).
				Warn("mockup render failed, falling back to raw artwork")
		}

		entries = append(entries, pdfrender.FileEntry{
			Filename:  df.Filename,
			Placement: df.Placement,
			URL:       template.URL(artworkURL),
		})
	}

	return entries, nil
}

// selectedMockupEntries loads previously generated mockups and inlines their
// bytes as data URIs. Failures become per-item skip results, never errors.
func (a *Assembler) selectedMockupEntries(ids []uuid.UUID) []EntryResult {
	mockups, err := a.store.GetGeneratedMockups(ids)
	if err != nil {
		return []EntryResult{{Skipped: true, SkipReason: fmt.Sprintf("failed to load selected mockups: %v", err)}}
	}

	results := make([]EntryResult, 0, len(mockups))
	for _, m := range mockups {
		data, err := a.objects.Download(a.cfg.BucketMockups, m.StoragePath)
		if err != nil {
			results = append(results, EntryResult{
				Skipped:    true,
				SkipReason: fmt.Sprintf("failed to fetch %s: %v", m.Filename, err),
			})
			continue
		}

		placement := "MOCKUP"
		if m.MockupName.Valid && m.MockupName.String != "" {
			placement = m.MockupName.String
		}

		results = append(results, EntryResult{
			Entry: pdfrender.FileEntry{
				Filename:  m.Filename,
				Placement: placement,
				URL:       dataURI(m.MimeType, data),
			},
		})
	}
	return results
}

// renderMockup drives one automatic render: normalize the artwork, call the
// render service, download the export, rehost it in the mockups bucket under
// a content-addressed path and record the generated mockup.
func (a *Assembler) renderMockup(order *models.OrderDetail, df models.DesignFile, binding *models.MockupBinding, artworkURL, orderID string, version int) (*pdfrender.FileEntry, error) {
	assetURL, err := a.normalizer.Normalize(artworkURL, df.MimeType, df.Filename)
	if err != nil {
		return nil, err
	}

	result, err := a.renderer.Render(dynamicmockups.RenderRequest{
		MockupUUID:      binding.MockupUUID,
		SmartObjectUUID: binding.SmartObjectUUID,
		AssetURL:        assetURL,
		ExportLabel:     fmt.Sprintf("%s-v%d-%s", orderID, version, df.Filename),
		ImageFormat:     a.cfg.ExportFormat,
		ImageSize:       a.cfg.ExportSize,
	})
	if err != nil {
		return nil, err
	}

	data, err := a.fetchExport(result.URL)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(a.cfg.ExportFormat)
	mockPath := RehostPath(orderID, version, data, ext)
	if err := a.objects.Upload(a.cfg.BucketMockups, mockPath, data, "image/"+ext); err != nil {
		return nil, err
	}

	mockup := &models.GeneratedMockup{
		OrderID:         uuid.NullUUID{UUID: order.ID, Valid: true},
		DesignFileID:    df.ID,
		MockupUUID:      binding.MockupUUID,
		SmartObjectUUID: binding.SmartObjectUUID,
		StoragePath:     mockPath,
		Filename:        fmt.Sprintf("mockup-%s.%s", df.Filename, ext),
		MimeType:        "image/" + ext,
		FileSize:        int64(len(data)),
	}
	if err := a.store.CreateGeneratedMockup(mockup); err != nil {
		return nil, err
	}

	return &pdfrender.FileEntry{
		Filename:  mockup.Filename,
		Placement: df.Placement,
		URL:       dataURI(mockup.MimeType, data),
	}, nil
}

func (a *Assembler) fetchExport(exportURL string) ([]byte, error) {
	resp, err := a.httpClient.Get(exportURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch export: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// RehostPath names a rehosted mockup after its rendered content, so
// byte-identical re-renders overwrite instead of accumulating.
func RehostPath(orderID string, version int, data []byte, ext string) string {
	sum := sha1.Sum(data)
	hash := hex.EncodeToString(sum[:])[:8]
	return fmt.Sprintf("%s/v%d-%s.%s", orderID, version, hash, ext)
}

func dataURI(mimeType string, data []byte) template.URL {
	return template.URL(fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)))
}
