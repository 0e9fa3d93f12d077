package middleware_test

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/csrf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/landmark-guide/internal/middleware"
)

func TestLimitBody_smallBody(t *testing.T) {
	var (
		got      []byte
		readErr  error
		tooLarge bool
	)
	h := middleware.LimitBody(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, readErr = io.ReadAll(r.Body)
		tooLarge = middleware.BodyTooLarge(r)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok")))

	require.NoError(t, readErr)
	assert.Equal(t, "ok", string(got))
	assert.False(t, tooLarge)
}

func TestLimitBody_declaredLengthOverCap(t *testing.T) {
	var (
		got      []byte
		tooLarge bool
	)
	h := middleware.LimitBody(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
		tooLarge = middleware.BodyTooLarge(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 2<<20)))
	require.Equal(t, int64(2<<20), req.ContentLength)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, tooLarge)
	assert.Empty(t, got, "body is not read")
}

func TestLimitBody_unknownLengthCutOff(t *testing.T) {
	var (
		readErr  error
		tooLarge bool
	)
	h := middleware.LimitBody(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, middleware.BodyTooLarge(r))
		_, readErr = io.ReadAll(r.Body)
		tooLarge = middleware.BodyTooLarge(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 2<<20)))
	req.ContentLength = -1
	h.ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	assert.True(t, errors.As(readErr, &maxErr))
	assert.True(t, tooLarge)
}

func TestBodyTooLarge_withoutMiddleware(t *testing.T) {
	assert.False(t, middleware.BodyTooLarge(httptest.NewRequest(http.MethodPost, "/", nil)))
}

// An oversized multipart upload reaches the CSRF error handler, not a bare
// 403, and the handler can still render a token for the next form.
func TestLimitBody_oversizedUploadReachesCSRFErrorHandler(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xff}, 2<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	var reachedHandler bool
	rejected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !middleware.BodyTooLarge(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		assert.NotEmpty(t, csrf.Token(r))
		http.Error(w, "too large", http.StatusRequestEntityTooLarge)
	})
	protect := csrf.Protect(bytes.Repeat([]byte("k"), 32), csrf.ErrorHandler(rejected))
	plaintext := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
	h := middleware.LimitBody(0)(plaintext(protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reachedHandler = true
	}))))

	req := httptest.NewRequest(http.MethodPost, "/identify", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, reachedHandler)
}
