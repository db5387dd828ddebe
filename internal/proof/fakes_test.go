package proof_test

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"proofgen-backend/internal/dynamicmockups"
	"proofgen-backend/internal/models"
)

// recorder keeps a cross-fake ordering trace so tests can assert
// upload-before-insert style invariants.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) indexOf(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

type fakeStore struct {
	rec *recorder

	order    *models.OrderDetail
	orderErr error

	bindings   map[string]*models.MockupBinding
	bindingErr error

	selected    []models.GeneratedMockup
	selectedErr error

	createdMockups []models.GeneratedMockup
	proofs         []models.Proof
	createErr      error
}

func (s *fakeStore) GetOrderDetail(orderID string) (*models.OrderDetail, error) {
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	if s.order == nil {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	return s.order, nil
}

func (s *fakeStore) GetMockupBinding(sku string) (*models.MockupBinding, error) {
	if s.bindingErr != nil {
		return nil, s.bindingErr
	}
	return s.bindings[sku], nil
}

func (s *fakeStore) GetGeneratedMockups(ids []uuid.UUID) ([]models.GeneratedMockup, error) {
	if s.selectedErr != nil {
		return nil, s.selectedErr
	}
	return s.selected, nil
}

func (s *fakeStore) CreateGeneratedMockup(m *models.GeneratedMockup) error {
	m.ID = uuid.New()
	s.createdMockups = append(s.createdMockups, *m)
	return nil
}

func (s *fakeStore) CreateProof(p *models.Proof) error {
	if s.createErr != nil {
		return s.createErr
	}
	p.ID = uuid.New()
	s.proofs = append(s.proofs, *p)
	if s.rec != nil {
		s.rec.add("insert-proof")
	}
	return nil
}

type fakeObjects struct {
	rec *recorder

	mu          sync.Mutex
	objects     map[string][]byte
	downloadErr map[string]error
	signErr     error
}

func newFakeObjects(rec *recorder) *fakeObjects {
	return &fakeObjects{
		rec:         rec,
		objects:     make(map[string][]byte),
		downloadErr: make(map[string]error),
	}
}

func key(bucket, objectPath string) string {
	return bucket + "/" + objectPath
}

func (o *fakeObjects) Upload(bucket, objectPath string, data []byte, contentType string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[key(bucket, objectPath)] = data
	if o.rec != nil {
		o.rec.add("upload:" + key(bucket, objectPath))
	}
	return nil
}

func (o *fakeObjects) Download(bucket, objectPath string) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := key(bucket, objectPath)
	if err := o.downloadErr[k]; err != nil {
		return nil, err
	}
	data, ok := o.objects[k]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", k)
	}
	return data, nil
}

func (o *fakeObjects) SignedURL(bucket, objectPath string, expiresIn int) (string, error) {
	if o.signErr != nil {
		return "", o.signErr
	}
	return "https://signed.example/" + key(bucket, objectPath), nil
}

type fakeRenderer struct {
	exportURL string
	err       error
	calls     int
	lastAsset string
}

func (r *fakeRenderer) Render(req dynamicmockups.RenderRequest) (*dynamicmockups.RenderResult, error) {
	r.calls++
	r.lastAsset = req.AssetURL
	if r.err != nil {
		return nil, r.err
	}
	return &dynamicmockups.RenderResult{URL: r.exportURL, Label: req.ExportLabel}, nil
}

type fakeNormalizer struct {
	calls int
}

// Normalize mimics the real policy: vectors get a fresh URL, rasters pass
// through.
func (n *fakeNormalizer) Normalize(assetURL, mimeType, filename string) (string, error) {
	n.calls++
	if mimeType == "image/svg+xml" {
		return assetURL + "#converted.png", nil
	}
	return assetURL, nil
}
