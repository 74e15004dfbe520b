package cocktail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cocktail-ingest/internal/core/cocktail"
	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/core/queue"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	gotDocs   []extract.Document
	gotGlass  []extract.GlassTypeRef
	gotTags   []string
	ingestErr error
}

func (s *stubService) Parse(_ context.Context, docs []extract.Document, glassRefs []extract.GlassTypeRef) (*cocktail.ParseResult, error) {
	s.gotDocs = docs
	s.gotGlass = glassRefs
	return &cocktail.ParseResult{Candidates: []extract.CocktailCandidate{}, DocumentCount: len(docs)}, nil
}

func (s *stubService) Ingest(_ context.Context, tagNames []string) (*cocktail.IngestResult, error) {
	s.gotTags = tagNames
	if s.ingestErr != nil {
		return nil, s.ingestErr
	}
	return &cocktail.IngestResult{BatchID: "b1", Documents: 1, Candidates: 1, Submitted: 1}, nil
}

func newRouter(svc Service) *gin.Engine {
	h := NewHandler(svc, false)
	r := gin.New()
	r.POST("/parse", h.HandleParse)
	r.POST("/ingest", h.HandleIngest)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleParseEndToEnd(t *testing.T) {
	parser := extract.NewParser()
	q := queue.NewManager(config.QueueConfig{Workers: 2, MaxSize: 4}, parser)
	defer q.Close()
	svc := cocktail.NewService(parser, q, nil, nil, nil)
	r := newRouter(svc)

	body := `{
		"documents": [
			{"id": "1", "tags": ["handbook"], "content": "Negroni\n1 oz gin\n1 oz campari\n1 oz sweet vermouth\nStir and strain."},
			{"id": "2", "tags": ["encyclopedia"], "content": "### Daiquiri\n**Glass:** Coupe\n**Ingredients:**\n- 2 oz rum"}
		],
		"glass_types": [{"id": "g1", "name": "coupe"}]
	}`
	w := post(r, "/parse", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res cocktail.ParseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.DocumentCount)
	assert.Equal(t, 2, res.CandidateCount)
	assert.Equal(t, "negroni", res.Candidates[0].Slug)
	assert.Len(t, res.Candidates[0].Ingredients, 3)
	assert.Equal(t, "stir and strain.", res.Candidates[0].Instructions)
	assert.Equal(t, "g1", res.Candidates[1].GlassID)
}

func TestHandleParseValidation(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := post(r, "/parse", `{"documents": [{"id": "", "content": "x"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeInvalidDocument)

	w = post(r, "/parse", `{"documents": [{"id": "a"}, {"id": "a"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/parse", `{"glass_types": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeInvalidRequest)

	w = post(r, "/parse", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.gotDocs)
}

func TestHandleParseGlassTypesOptional(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := post(r, "/parse", `{"documents": []}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.gotGlass)

	w = post(r, "/parse", `{"documents": [], "glass_types": []}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, svc.gotGlass)
}

func TestHandleIngest(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := post(r, "/ingest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.gotTags)
	assert.JSONEq(t, `{"batch_id":"b1","documents":1,"candidates":1,"submitted":1}`, w.Body.String())

	w = post(r, "/ingest", `{"tags": ["handbook"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"handbook"}, svc.gotTags)
}

func TestHandleIngestErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{common.ErrSourceDisabled, http.StatusServiceUnavailable, common.ErrCodeSourceDisabled},
		{common.ErrDocumentSource.Wrap(assert.AnError), http.StatusBadGateway, common.ErrCodeDocumentSource},
		{common.ErrReviewSink, http.StatusServiceUnavailable, common.ErrCodeReviewSink},
		{fmt.Errorf("fetch documents: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, common.ErrCodeGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout, common.ErrCodeRequestTimeout},
		{assert.AnError, http.StatusInternalServerError, common.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r := newRouter(&stubService{ingestErr: tt.err})
			w := post(r, "/ingest", "")
			assert.Equal(t, tt.status, w.Code)

			var body common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Empty(t, body.Details)
		})
	}
}
