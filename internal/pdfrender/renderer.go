// Package pdfrender builds the proof document and delegates pagination to a
// Gotenberg-compatible HTML-to-PDF backend.
package pdfrender

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"proofgen-backend/internal/models"
)

type FileEntry struct {
	Filename string
	// Placement labels the entry on the page ("front", "MOCKUP",
	// "back (Artwork)", ...).
	Placement string
	// URL is either a signed URL or a base64 data URI. It must be typed
	// template.URL: the template sanitizer rewrites plain-string data URIs
	// to #ZgotmplZ.
	URL template.URL
}

type Input struct {
	Order     *models.Order
	Customer  *models.Customer
	Files     []FileEntry
	Watermark string
	Version   int
}

var proofTmpl = template.Must(template.New("proof").Parse(proofTemplate))

// BuildHTML fills the proof template with order, customer and file data.
func BuildHTML(in Input) (string, error) {
	var buf bytes.Buffer
	if err := proofTmpl.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("failed to render proof template: %w", err)
	}
	return buf.String(), nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// RenderProof produces the complete PDF byte stream for a proof: Letter
// paper, half-inch margins, backgrounds printed. One synchronous call, no
// streaming.
func (c *Client) RenderProof(in Input) ([]byte, error) {
	html, err := BuildHTML(in)
	if err != nil {
		return nil, err
	}
	return c.convert(html)
}

func (c *Client) convert(html string) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write([]byte(html)); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}

	fields := map[string]string{
		"paperWidth":      "8.5",
		"paperHeight":     "11",
		"marginTop":       "0.5",
		"marginBottom":    "0.5",
		"marginLeft":      "0.5",
		"marginRight":     "0.5",
		"printBackground": "true",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/forms/chromium/convert/html", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call pdf backend: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf render failed: status %d, body: %s", resp.StatusCode, string(data))
	}

	return data, nil
}
