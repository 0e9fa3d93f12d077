package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/landmark-guide/internal/models"
	"github.com/rahul4469/landmark-guide/internal/services"
)

func wikiServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/w/api.php", r.URL.Path)
		assert.Equal(t, "landmark-guide-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "query", r.URL.Query().Get("action"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("titles") {
		case "Taj Mahal":
			_, _ = w.Write([]byte(`{"query":{"pages":[{"pageid":82976,"title":"Taj Mahal","fullurl":"https://en.wikipedia.org/wiki/Taj_Mahal"}]}}`))
		case "Broken":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Nowhere Palace","missing":true}]}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWikiClient_PageURL(t *testing.T) {
	srv := wikiServer(t)
	w := services.NewWikiClient(srv.URL+"/", "landmark-guide-test")

	got, err := w.PageURL(context.Background(), "Taj Mahal")
	require.NoError(t, err)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Taj_Mahal", got)
}

func TestWikiClient_missingPage(t *testing.T) {
	srv := wikiServer(t)
	w := services.NewWikiClient(srv.URL, "landmark-guide-test")

	_, err := w.PageURL(context.Background(), "Nowhere Palace")
	require.ErrorIs(t, err, models.ErrPageNotFound)

	_, err = w.PageURL(context.Background(), models.UnknownValue)
	require.ErrorIs(t, err, models.ErrPageNotFound)
}

func TestWikiClient_upstreamError(t *testing.T) {
	srv := wikiServer(t)
	w := services.NewWikiClient(srv.URL, "landmark-guide-test")

	_, err := w.PageURL(context.Background(), "Broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrPageNotFound)
	assert.Contains(t, err.Error(), "503")
}
