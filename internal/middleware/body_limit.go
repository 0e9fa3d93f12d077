package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// multipartOverhead covers form fields and part headers on top of the file.
const multipartOverhead = 1 << 20

type bodyLimitKey struct{}

// bodyLimit records whether a request body went over the cap.
type bodyLimit struct {
	exceeded bool
}

// LimitBody caps request bodies at maxUpload plus room for the other form
// fields. A declared Content-Length over the cap is refused without reading
// the body: the handler sees an empty body. Otherwise reads past the cap fail
// with *http.MaxBytesError. Either way BodyTooLarge reports it afterwards,
// including from the CSRF error handler, which runs after form parsing has
// lost the token.
func LimitBody(maxUpload int64) func(http.Handler) http.Handler {
	limit := maxUpload + multipartOverhead
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := &bodyLimit{}
			r = r.WithContext(context.WithValue(r.Context(), bodyLimitKey{}, state))

			if r.ContentLength > limit {
				state.exceeded = true
				r.Body = http.NoBody
				r.ContentLength = 0
			} else if r.Body != nil {
				r.Body = &limitedBody{ReadCloser: http.MaxBytesReader(w, r.Body, limit), state: state}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyTooLarge reports whether LimitBody refused or cut off the body of r.
func BodyTooLarge(r *http.Request) bool {
	state, ok := r.Context().Value(bodyLimitKey{}).(*bodyLimit)
	return ok && state.exceeded
}

type limitedBody struct {
	io.ReadCloser
	state *bodyLimit
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		b.state.exceeded = true
	}
	return n, err
}
