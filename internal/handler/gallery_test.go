package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageIndex(t *testing.T) {
	ts := testServer(t)

	resp := do(t, ts, imageHost, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Image Database", string(readBody(t, resp)))
}

func TestGallery_RawBytes(t *testing.T) {
	ts := testServer(t)
	data := testPNG(t, 100, 50)
	res := uploadOK(t, ts, data)

	resp := do(t, ts, imageHost, http.MethodGet, "/gallery/"+res.ID+".png", nil, http.Header{"Accept": {"image/*"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "inline", resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "Accept", resp.Header.Get("Vary"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "sandbox")
	assert.Equal(t, data, readBody(t, resp))
}

func TestGallery_SVGIsSandboxed(t *testing.T) {
	ts := testServer(t)
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><script>alert(1)</script></svg>`)
	res := uploadOK(t, ts, svg)
	require.True(t, strings.HasSuffix(res.URL, ".svg+xml"), res.URL)

	resp := do(t, ts, imageHost, http.MethodGet, "/gallery/"+res.ID+".svg+xml", nil, http.Header{"Accept": {"image/*"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	csp := resp.Header.Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'none'")
	assert.Contains(t, csp, "sandbox")
	assert.Equal(t, svg, readBody(t, resp))
}

func TestGallery_NoAcceptGetsRawBytes(t *testing.T) {
	ts := testServer(t)
	data := testPNG(t, 4, 4)
	res := uploadOK(t, ts, data)

	resp := do(t, ts, imageHost, http.MethodGet, "/gallery/"+res.ID+".png", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, data, readBody(t, resp))
}

func TestGallery_HTMLWrapper(t *testing.T) {
	ts := testServer(t)
	res := uploadOK(t, ts, testPNG(t, 100, 50))
	html := http.Header{"Accept": {"text/html,application/xhtml+xml"}}

	t.Run("probed dimensions", func(t *testing.T) {
		resp := do(t, ts, imageHost, http.MethodGet, "/gallery/"+res.ID+".png", nil, html)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

		body := string(readBody(t, resp))
		assert.Contains(t, body, `width="100"`)
		assert.Contains(t, body, `height="50"`)
		assert.Contains(t, body, "data:image/png;base64,")
		assert.Contains(t, body, res.ID+".png")
	})

	t.Run("square size", func(t *testing.T) {
		resp := do(t, ts, imageHost, http.MethodGet, "/gallery/"+res.ID+".png?size=200", nil, html)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := string(readBody(t, resp))
		assert.Contains(t, body, `width="200"`)
		assert.Contains(t, body, `height="200"`)
	})

	t.Run("rectangle size", func(t *testing.T) {
		resp := do(t, ts, imageHost, http.MethodGet, "/gallery/"+res.ID+".png?size=300x120", nil, html)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := string(readBody(t, resp))
		assert.Contains(t, body, `width="300"`)
		assert.Contains(t, body, `height="120"`)
	})
}

func TestGallery_Redirects(t *testing.T) {
	ts := testServer(t)
	res := uploadOK(t, ts, testPNG(t, 2, 2))
	canonical := "/gallery/" + res.ID + ".png"

	tests := []struct {
		name     string
		path     string
		location string
	}{
		{"missing extension", "/gallery/" + res.ID, canonical},
		{"wrong extension", "/gallery/" + res.ID + ".jpg", canonical},
		{"query preserved", "/gallery/" + res.ID + ".gif?size=64", canonical + "?size=64"},
		{"invalid size still redirects", "/gallery/" + res.ID + "?size=0", canonical + "?size=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, imageHost, http.MethodGet, tt.path, nil, nil)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestGallery_InvalidSize(t *testing.T) {
	ts := testServer(t)
	res := uploadOK(t, ts, testPNG(t, 2, 2))

	for _, size := range []string{"0", "abc", "10x", "x10", "65536", "-5", "10x20x30"} {
		resp := do(t, ts, imageHost, http.MethodGet, "/gallery/"+res.ID+".png?size="+size, nil, http.Header{"Accept": {"application/json"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, size)

		var env errorEnvelope
		decodeResponse(t, resp, &env)
		assert.Equal(t, 400, env.Error.Code, size)
	}
}

func TestGallery_NotFoundJSON(t *testing.T) {
	ts := testServer(t)

	resp := do(t, ts, imageHost, http.MethodGet, "/gallery/AAAAAAAAAA.png", nil, http.Header{"Accept": {"application/json"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env errorEnvelope
	decodeResponse(t, resp, &env)
	assert.Equal(t, 404, env.Error.Code)
	assert.Contains(t, env.Error.Message, "AAAAAAAAAA.png")
}

func TestGallery_NotFoundHTML(t *testing.T) {
	ts := testServer(t)

	resp := do(t, ts, imageHost, http.MethodGet, "/gallery/AAAAAAAAAA.png", nil, http.Header{"Accept": {"text/html"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(readBody(t, resp)), "404")
}

func TestGallery_UnknownRoute(t *testing.T) {
	ts := testServer(t)

	resp := do(t, ts, imageHost, http.MethodGet, "/nope", nil, http.Header{"Accept": {"application/json"}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env errorEnvelope
	decodeResponse(t, resp, &env)
	assert.Equal(t, 404, env.Error.Code)
}

func TestGallery_MethodNotAllowed(t *testing.T) {
	ts := testServer(t)

	resp := do(t, ts, imageHost, http.MethodPost, "/gallery/AAAAAAAAAA.png", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
