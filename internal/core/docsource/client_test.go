package docsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

func newTestServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/api/tags/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token secret-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"next": null, "results": [{"id": 3, "name": "json"}, {"id": 4, "name": "invoice"}]}`)
			return
		}
		fmt.Fprintf(w, `{"next": "%s/api/tags/?page=2", "results": [{"id": 1, "name": "Handbook"}, {"id": 2, "name": "encyclopedia"}]}`, srv.URL)
	})

	mux.HandleFunc("/api/documents/", func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"next": null, "results": [{"id": 12, "content": "### Sour\n**Ingredients:**\n- 2 oz whiskey", "tags": [2, 99]}]}`)
			return
		}
		fmt.Fprintf(w, `{"next": "%s/api/documents/?page=2", "results": [{"id": 11, "title": "Martini", "content": "Martini\n2 oz gin", "tags": [1]}]}`, srv.URL)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &queries
}

func TestFetchDocuments(t *testing.T) {
	srv, queries := newTestServer(t)
	c := NewClient(config.DocumentSourceConfig{BaseURL: srv.URL + "/", Token: "secret-token", PageSize: 2})

	docs, err := c.FetchDocuments(context.Background(), []string{"handbook", "Encyclopedia", "json"})
	require.NoError(t, err)

	assert.Equal(t, []extract.Document{
		{ID: "11", Content: "Martini\n2 oz gin", Tags: []string{"Handbook"}},
		{ID: "12", Content: "### Sour\n**Ingredients:**\n- 2 oz whiskey", Tags: []string{"encyclopedia"}},
	}, docs)

	require.NotEmpty(t, *queries)
	assert.Contains(t, (*queries)[0], "tags__id__in=1,2,3")
	assert.Contains(t, (*queries)[0], "page_size=2")
}

func TestListTags(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(config.DocumentSourceConfig{BaseURL: srv.URL, Token: "secret-token"})

	tags, err := c.ListTags(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 4)
	assert.Equal(t, "invoice", tags[3].Name)
}

func TestFetchDocumentsUnknownTags(t *testing.T) {
	srv, queries := newTestServer(t)
	c := NewClient(config.DocumentSourceConfig{BaseURL: srv.URL, Token: "secret-token"})

	docs, err := c.FetchDocuments(context.Background(), []string{"nothing"})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, *queries)
}

func TestFetchDocumentsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(config.DocumentSourceConfig{BaseURL: srv.URL})
	_, err := c.FetchDocuments(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDocumentSource))

	status, body := common.ToResponse(err, false)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, common.ErrCodeDocumentSource, body.Code)
}

func TestFetchDocumentsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [`)
	}))
	defer srv.Close()

	c := NewClient(config.DocumentSourceConfig{BaseURL: srv.URL})
	_, err := c.FetchDocuments(context.Background(), nil)
	assert.True(t, errors.Is(err, common.ErrDocumentSource))
}
