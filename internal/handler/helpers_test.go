package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/leca/image-cdn/internal/config"
	"github.com/leca/image-cdn/internal/database"
	"github.com/leca/image-cdn/internal/router"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testToken   = "test-secret"
	testBaseURL = "https://cdn.example.com"
	imageHost   = "cdn.test"
	webHost     = "www.test"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AuthKey:        testToken,
		PublicBaseURL:  testBaseURL,
		MaxUploadBytes: 1 << 20,
		ImageHosts:     []string{imageHost},
		WebHosts:       []string{webHost},
		StaticDir:      t.TempDir(),
	}
}

// testServer creates a test HTTP server backed by a temporary SQLite file.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	return testServerWith(t, nil, testConfig(t))
}

// testServerWith lets a test swap the database or tweak the config. A nil
// db opens a fresh SQLite file.
func testServerWith(t *testing.T, db database.Database, cfg *config.Config) *httptest.Server {
	t.Helper()
	if db == nil {
		sqlite, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "images.db"))
		require.NoError(t, err)
		t.Cleanup(func() { sqlite.Close() })
		db = sqlite
	}

	srv := router.New(db, cfg, nil, zerolog.Nop())
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts
}

// client does not follow redirects so tests can assert on them.
var client = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
}

// do sends a request addressed to host.
func do(t *testing.T, ts *httptest.Server, host, method, path string, body io.Reader, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	req.Host = host
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// multipartFileBody builds a multipart request body with a file field.
func multipartFileBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// upload posts content as the "file" field with the given Authorization value.
func upload(t *testing.T, ts *httptest.Server, auth string, content []byte) *http.Response {
	t.Helper()
	body, contentType := multipartFileBody(t, "file", "upload.bin", content)
	header := http.Header{"Content-Type": {contentType}}
	if auth != "" {
		header.Set("Authorization", auth)
	}
	return do(t, ts, imageHost, http.MethodPost, "/upload", body, header)
}

type uploadResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// uploadOK uploads content with valid credentials and decodes the result.
func uploadOK(t *testing.T, ts *httptest.Server, content []byte) uploadResult {
	t.Helper()
	resp := upload(t, ts, testToken, content)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res uploadResult
	decodeResponse(t, resp, &res)
	return res
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeResponse decodes the JSON body into the provided target.
func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target), string(data))
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return data
}

// testPNG generates a valid PNG of the given size.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
