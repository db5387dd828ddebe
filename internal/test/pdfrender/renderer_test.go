package pdfrender_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofgen-backend/internal/models"
	"proofgen-backend/internal/pdfrender"
)

func proofInput() pdfrender.Input {
	return pdfrender.Input{
		Order: &models.Order{
			ID:              uuid.New(),
			OrderNumber:     "SO-1042",
			NeedsDigitizing: true,
		},
		Customer: &models.Customer{Name: "Acme Embroidery", Email: "orders@acme.example"},
		Files: []pdfrender.FileEntry{
			{Filename: "front.png", Placement: "front", URL: "data:image/png;base64,AAAA"},
			{Filename: "back.png", Placement: "back (Artwork)", URL: "https://signed.example/back.png"},
		},
		Watermark: "PROOF - NOT FOR PRODUCTION",
		Version:   3,
	}
}

func TestBuildHTML(t *testing.T) {
	html, err := pdfrender.BuildHTML(proofInput())
	require.NoError(t, err)

	assert.Contains(t, html, "PROOF - NOT FOR PRODUCTION")
	assert.Contains(t, html, "SO-1042")
	assert.Contains(t, html, "(v3)")
	assert.Contains(t, html, "Acme Embroidery")
	assert.Contains(t, html, "NEEDS DIGITIZING")
	assert.NotContains(t, html, "DESIGNED BY 66")
	assert.Contains(t, html, "front.png")
	assert.Contains(t, html, "back (Artwork)")
	assert.Contains(t, html, "https://signed.example/back.png")
}

func TestBuildHTML_InlinedDataURISurvivesEscaping(t *testing.T) {
	html, err := pdfrender.BuildHTML(proofInput())
	require.NoError(t, err)

	assert.Contains(t, html, `src="data:image/png;base64,AAAA"`)
	assert.NotContains(t, html, "ZgotmplZ")
}

func TestClient_RenderProof(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "8.5", r.FormValue("paperWidth"))
		assert.Equal(t, "11", r.FormValue("paperHeight"))
		assert.Equal(t, "0.5", r.FormValue("marginTop"))
		assert.Equal(t, "true", r.FormValue("printBackground"))

		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "index.html", header.Filename)

		w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer srv.Close()

	client := pdfrender.NewClient(srv.URL)
	data, err := client.RenderProof(proofInput())

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 fake"), data)
}

func TestClient_RenderProof_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("chromium unavailable"))
	}))
	defer srv.Close()

	client := pdfrender.NewClient(srv.URL)
	_, err := client.RenderProof(proofInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "chromium unavailable")
}
