// Package dynamicmockups is a client for the Dynamic Mockups render API.
// Docs: https://docs.dynamicmockups.com
package dynamicmockups

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type RenderRequest struct {
	MockupUUID      string
	SmartObjectUUID string
	// AssetURL is a publicly fetchable (signed) URL to the design artwork.
	AssetURL    string
	ExportLabel string
	ImageFormat string
	ImageSize   int
}

type RenderResult struct {
	URL   string
	Label string
}

type SmartObject struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type Mockup struct {
	UUID         string        `json:"uuid"`
	Name         string        `json:"name"`
	SmartObjects []SmartObject `json:"smart_objects"`
}

type renderPayload struct {
	MockupUUID    string               `json:"mockup_uuid"`
	ExportLabel   string               `json:"export_label"`
	ExportOptions exportOptions        `json:"export_options"`
	SmartObjects  []smartObjectPayload `json:"smart_objects"`
}

type exportOptions struct {
	ImageFormat string `json:"image_format"`
	ImageSize   int    `json:"image_size"`
	Mode        string `json:"mode"`
}

type smartObjectPayload struct {
	UUID  string       `json:"uuid"`
	Asset assetPayload `json:"asset"`
}

type assetPayload struct {
	URL string `json:"url"`
}

type renderResponse struct {
	Data struct {
		ExportPath  string `json:"export_path"`
		ExportLabel string `json:"export_label"`
	} `json:"data"`
}

type mockupsResponse struct {
	Data []Mockup `json:"data"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Render composites one design asset onto a mockup template and returns the
// export URL. "view" mode makes the API return a URL instead of binary data.
func (c *Client) Render(req RenderRequest) (*RenderResult, error) {
	payload := renderPayload{
		MockupUUID:  req.MockupUUID,
		ExportLabel: req.ExportLabel,
		ExportOptions: exportOptions{
			ImageFormat: req.ImageFormat,
			ImageSize:   req.ImageSize,
			Mode:        "view",
		},
		SmartObjects: []smartObjectPayload{
			{UUID: req.SmartObjectUUID, Asset: assetPayload{URL: req.AssetURL}},
		},
	}
	if payload.ExportLabel == "" {
		payload.ExportLabel = "proof"
	}
	if payload.ExportOptions.ImageFormat == "" {
		payload.ExportOptions.ImageFormat = "jpg"
	}
	if payload.ExportOptions.ImageSize == 0 {
		payload.ExportOptions.ImageSize = 1500
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal render payload: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/renders", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute render request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result renderResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode render response: %w, body: %s", err, string(body))
	}

	if result.Data.ExportPath == "" {
		return nil, fmt.Errorf("no export_path in render response, body: %s", string(body))
	}

	label := result.Data.ExportLabel
	if label == "" {
		label = payload.ExportLabel
	}

	return &RenderResult{URL: result.Data.ExportPath, Label: label}, nil
}

// ListMockups returns the templates available in the account's library.
func (c *Client) ListMockups() ([]Mockup, error) {
	httpReq, err := http.NewRequest(http.MethodGet, c.baseURL+"/mockups", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list mockups failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result mockupsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode mockups response: %w, body: %s", err, string(body))
	}

	return result.Data, nil
}
