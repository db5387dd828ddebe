// Package artwork prepares design assets for the mockup render service,
// which only accepts raster inputs.
package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// maxDimension caps rasterized output. Aspect ratio is preserved and images
// already smaller than the cap are never upscaled.
const maxDimension = 4000

type ObjectStore interface {
	Upload(bucket, objectPath string, data []byte, contentType string) error
	SignedURL(bucket, objectPath string, expiresIn int) (string, error)
}

type Normalizer struct {
	objects    ObjectStore
	bucket     string
	httpClient *http.Client
}

func NewNormalizer(objects ObjectStore, artworkBucket string) *Normalizer {
	return &Normalizer{
		objects: objects,
		bucket:  artworkBucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsVector reports whether the asset is in a vector format the render service
// rejects.
func IsVector(mimeType, filename string) bool {
	if mimeType == "image/svg+xml" {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".svg")
}

// Normalize returns a URL usable as render-service input. Raster assets pass
// through unchanged; vector assets are fetched, rasterized to PNG, uploaded
// to a temporary object in the artwork bucket and returned as a fresh signed
// URL. Fetch or conversion failures are returned to the caller, which decides
// whether the enclosing render attempt falls back.
func (n *Normalizer) Normalize(assetURL, mimeType, filename string) (string, error) {
	if !IsVector(mimeType, filename) {
		return assetURL, nil
	}

	logrus.WithField("filename", filename).Info("converting vector artwork to PNG")

	resp, err := n.httpClient.Get(assetURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch artwork %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch artwork %s: status %d", filename, resp.StatusCode)
	}

	svgData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read artwork %s: %w", filename, err)
	}

	pngData, err := rasterize(svgData)
	if err != nil {
		return "", fmt.Errorf("failed to rasterize %s: %w", filename, err)
	}

	tempPath := fmt.Sprintf("temp/%s-converted.png", uuid.New().String())
	if err := n.objects.Upload(n.bucket, tempPath, pngData, "image/png"); err != nil {
		return "", err
	}

	signedURL, err := n.objects.SignedURL(n.bucket, tempPath, 3600)
	if err != nil {
		return "", err
	}

	return signedURL, nil
}

// rasterize renders SVG bytes to a PNG with transparency preserved.
func rasterize(svgData []byte) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has no usable viewbox")
	}

	scale := 1.0
	if w > maxDimension || h > maxDimension {
		scale = maxDimension / w
		if s := maxDimension / h; s < scale {
			scale = s
		}
	}
	outW := int(w*scale + 0.5)
	outH := int(h*scale + 0.5)

	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	icon.SetTarget(0, 0, float64(outW), float64(outH))
	scanner := rasterx.NewScannerGV(outW, outH, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(outW, outH, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
