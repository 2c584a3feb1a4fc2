package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/scrub/internal/engine/filter"
	"github.com/crimson-sun/scrub/internal/engine/recognize"
	"github.com/crimson-sun/scrub/internal/model"
)

type stubOracle struct {
	matches []model.Match
	err     error
}

func (s *stubOracle) Detect(ctx context.Context, text string) ([]model.Match, error) {
	return s.matches, s.err
}

func newTestEngine(t *testing.T, threshold float64, opts ...Option) *Engine {
	t.Helper()
	rec := recognize.New(recognize.DefaultRules(), 0.2, 40)
	return New(rec, filter.New(nil, false), threshold, opts...)
}

func TestDetectRulesOnly(t *testing.T) {
	e := newTestEngine(t, 0.5)
	matches, err := e.Detect(context.Background(), "email bernard@example.com and mobile 0412 345 678")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "EMAIL", matches[0].Type)
	assert.Equal(t, "AU_PHONE", matches[1].Type)
}

func TestDetectThresholdDropsLowScores(t *testing.T) {
	// Bare 8-digit number scores far below 0.5 without context.
	e := newTestEngine(t, 0.5)
	matches, err := e.Detect(context.Background(), "shipment id 12345678 dispatched")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDetectMergesOracleMatches(t *testing.T) {
	text := "spoke with John Smith on 0412 345 678"
	person, err := model.NewMatch("PERSON", "John Smith", 11, 21, 0.85, model.SourceNER)
	require.NoError(t, err)

	e := newTestEngine(t, 0.5, WithOracle(&stubOracle{matches: []model.Match{person}}))
	matches, err := e.Detect(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "PERSON", matches[0].Type)
	assert.Equal(t, "AU_PHONE", matches[1].Type)
}

func TestDetectOracleFailureDegrades(t *testing.T) {
	e := newTestEngine(t, 0.5, WithOracle(&stubOracle{err: errors.New("session closed")}))
	matches, err := e.Detect(context.Background(), "email bernard@example.com")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "EMAIL", matches[0].Type)
}

func TestDetectEntityAllowList(t *testing.T) {
	e := newTestEngine(t, 0.5, WithEntities([]string{"EMAIL"}))
	matches, err := e.Detect(context.Background(), "email bernard@example.com and mobile 0412 345 678")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "EMAIL", matches[0].Type)
}

func TestDetectNormalizesCapsNames(t *testing.T) {
	// The normalizer title-cases shouted names so downstream detectors see
	// natural casing. Offsets stay valid because length is preserved.
	e := newTestEngine(t, 0.5)
	assert.Equal(t, "Contacted Mr Bernard Hynes today", e.Normalize("Contacted MR BERNARD HYNES today"))
}

func TestDetectCancelledContext(t *testing.T) {
	e := newTestEngine(t, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Detect(ctx, "email bernard@example.com")
	assert.Error(t, err)
}
