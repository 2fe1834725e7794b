package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Routes whose failure paths never reach the service can be exercised with
// an empty handler wiring.
func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api/v1"), nil)
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_InvalidProjectID(t *testing.T) {
	r := testRouter()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/projects/not-a-uuid"},
		{http.MethodPut, "/api/v1/projects/not-a-uuid"},
		{http.MethodDelete, "/api/v1/projects/not-a-uuid"},
		{http.MethodDelete, "/api/v1/projects/not-a-uuid/purge"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["ok"])
			assert.Equal(t, "invalid project id", body["error"])
		})
	}
}

func TestHandler_EmptyBody(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/projects", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "empty body", decodeBody(t, w)["error"])
}

func TestHandler_Upload(t *testing.T) {
	r := testRouter()

	uploadRequest := func(t *testing.T, filename string, content []byte) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	t.Run("missing file part", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/upload", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "missing file", decodeBody(t, w)["error"])
	})

	t.Run("spreadsheet upload is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "projects.csv", []byte("id,title\n1,x\n")))

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["ok"])
		assert.Contains(t, body["error"], "unsupported file type")
	})

	t.Run("extension check is case insensitive", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "projects.XLSX", []byte{0x50, 0x4b}))

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}
