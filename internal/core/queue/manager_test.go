package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cocktail-ingest/internal/core/extract"
	"cocktail-ingest/internal/infrastructure/config"
	"cocktail-ingest/internal/pkg/common"
)

func handbookDocs(n int) []extract.Document {
	docs := make([]extract.Document, n)
	for i := range docs {
		docs[i] = extract.Document{
			ID:      fmt.Sprintf("doc-%d", i),
			Tags:    []string{"handbook"},
			Content: fmt.Sprintf("Drink %d\n%d oz gin", i, i+1),
		}
	}
	return docs
}

func TestParseAllPreservesOrder(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 4, MaxSize: 3}, extract.NewParser())
	defer m.Close()

	docs := handbookDocs(40)
	results, err := m.ParseAll(context.Background(), docs, nil)
	require.NoError(t, err)
	require.Len(t, results, len(docs))

	for i, res := range results {
		assert.Equal(t, docs[i].ID, res.DocumentID)
		require.Len(t, res.Candidates, 1)
		assert.Equal(t, fmt.Sprintf("drink %d", i), res.Candidates[0].Name)
	}

	status := m.GetQueueStatus()
	assert.Equal(t, 40, status.ProcessedCount)
	assert.Equal(t, 4, status.Workers)
	assert.Equal(t, 3, status.MaxQueueSize)
	assert.False(t, status.Closed)
}

func TestParseAllMatchesSequentialParse(t *testing.T) {
	parser := extract.NewParser()
	m := NewManager(config.QueueConfig{Workers: 3, MaxSize: 10}, parser)
	defer m.Close()

	docs := append(handbookDocs(5), extract.Document{ID: "skip", Tags: []string{"other"}})
	results, err := m.ParseAll(context.Background(), docs, nil)
	require.NoError(t, err)

	var concurrent []extract.CocktailCandidate
	for _, res := range results {
		concurrent = append(concurrent, res.Candidates...)
	}
	assert.Equal(t, parser.ParseDocuments(docs, nil), concurrent)
}

func TestParseAllCancelled(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, extract.NewParser())
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.ParseAll(ctx, handbookDocs(3), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnqueueAfterClose(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 2}, extract.NewParser())
	m.Close()
	m.Close()

	_, err := m.Enqueue(context.Background(), extract.Document{ID: "x"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrQueueClosed))
	assert.True(t, m.GetQueueStatus().Closed)
}

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(config.QueueConfig{}, extract.NewParser())
	defer m.Close()

	status := m.GetQueueStatus()
	assert.Equal(t, 1, status.Workers)
	assert.Equal(t, 1, status.MaxQueueSize)
}
