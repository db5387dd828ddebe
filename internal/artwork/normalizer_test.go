package artwork_test

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofgen-backend/internal/artwork"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50" viewBox="0 0 100 50">
	<rect width="100" height="50" fill="#ff0000"/>
</svg>`

type fakeObjects struct {
	uploads      int
	lastPath     string
	lastData     []byte
	lastMimeType string
}

func (o *fakeObjects) Upload(bucket, objectPath string, data []byte, contentType string) error {
	o.uploads++
	o.lastPath = bucket + "/" + objectPath
	o.lastData = data
	o.lastMimeType = contentType
	return nil
}

func (o *fakeObjects) SignedURL(bucket, objectPath string, expiresIn int) (string, error) {
	return "https://signed.example/" + bucket + "/" + objectPath, nil
}

func TestIsVector(t *testing.T) {
	assert.True(t, artwork.IsVector("image/svg+xml", "logo.png"))
	assert.True(t, artwork.IsVector("application/octet-stream", "logo.svg"))
	assert.True(t, artwork.IsVector("", "LOGO.SVG"))
	assert.False(t, artwork.IsVector("image/png", "logo.png"))
	assert.False(t, artwork.IsVector("image/jpeg", "photo.jpg"))
}

func TestNormalize_RasterPassesThrough(t *testing.T) {
	objects := &fakeObjects{}
	n := artwork.NewNormalizer(objects, "design-files")

	url, err := n.Normalize("https://signed.example/design-files/a.png", "image/png", "a.png")

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/design-files/a.png", url)
	assert.Zero(t, objects.uploads)
}

func TestNormalize_VectorIsConvertedOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(testSVG))
	}))
	defer srv.Close()

	objects := &fakeObjects{}
	n := artwork.NewNormalizer(objects, "design-files")

	url, err := n.Normalize(srv.URL, "image/svg+xml", "logo.svg")

	require.NoError(t, err)
	assert.NotEqual(t, srv.URL, url)
	assert.True(t, strings.HasPrefix(url, "https://signed.example/design-files/temp/"))
	assert.True(t, strings.HasSuffix(url, "-converted.png"))

	require.Equal(t, 1, objects.uploads)
	assert.Equal(t, "image/png", objects.lastMimeType)
	// PNG magic bytes
	assert.True(t, bytes.HasPrefix(objects.lastData, []byte("\x89PNG")))
}

func serveSVG(t *testing.T, svg string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(svg))
	}))
}

func TestNormalize_OversizedVectorCappedPreservingAspect(t *testing.T) {
	bigSVG := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 8000 4000">
		<rect width="8000" height="4000" fill="#00ff00"/>
	</svg>`
	srv := serveSVG(t, bigSVG)
	defer srv.Close()

	objects := &fakeObjects{}
	n := artwork.NewNormalizer(objects, "design-files")

	_, err := n.Normalize(srv.URL, "image/svg+xml", "banner.svg")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(objects.lastData))
	require.NoError(t, err)
	assert.Equal(t, 4000, img.Bounds().Dx())
	assert.Equal(t, 2000, img.Bounds().Dy())
}

func TestNormalize_SmallVectorNotUpscaled(t *testing.T) {
	srv := serveSVG(t, testSVG)
	defer srv.Close()

	objects := &fakeObjects{}
	n := artwork.NewNormalizer(objects, "design-files")

	_, err := n.Normalize(srv.URL, "image/svg+xml", "logo.svg")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(objects.lastData))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestNormalize_FetchFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	n := artwork.NewNormalizer(&fakeObjects{}, "design-files")

	_, err := n.Normalize(srv.URL, "image/svg+xml", "logo.svg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestNormalize_BadSVGPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not svg"))
	}))
	defer srv.Close()

	n := artwork.NewNormalizer(&fakeObjects{}, "design-files")

	_, err := n.Normalize(srv.URL, "image/svg+xml", "broken.svg")

	require.Error(t, err)
}
