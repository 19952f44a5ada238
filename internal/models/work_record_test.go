package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkRecord_NormalizeFillsCollections(t *testing.T) {
	rec := &WorkRecord{ID: "demo"}
	rec.Normalize()

	assert.NotNil(t, rec.Tags)
	assert.NotNil(t, rec.Platforms)
	assert.NotNil(t, rec.Files)
	assert.NotNil(t, rec.Screenshots)
	assert.NotNil(t, rec.Videos)
}

func TestWorkRecord_CounterLookup(t *testing.T) {
	rec := &WorkRecord{Views: 3}

	field := rec.Counter(CounterViews)
	require.NotNil(t, field)
	*field++
	assert.Equal(t, 4, rec.Views)

	assert.Nil(t, rec.Counter("bogus"))
}

func TestWorkRecord_OldRecordCountersDefaultToZero(t *testing.T) {
	// A record written before the counters existed.
	raw := []byte(`{"id":"old","title":"Old","platforms":["pc"]}`)

	var rec WorkRecord
	require.NoError(t, json.Unmarshal(raw, &rec))

	assert.Zero(t, rec.Downloads)
	assert.Zero(t, rec.Views)
	assert.Zero(t, rec.Likes)
	assert.Zero(t, rec.UpdateCount)
}
