package scrub_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/scrub/pkg/scrub"
)

func TestDetect(t *testing.T) {
	s, err := scrub.New()
	require.NoError(t, err)
	defer s.Close()

	matches, err := s.Detect(context.Background(), "email jane@example.com or call 0412 345 678")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "EMAIL", matches[0].Type)
	assert.Equal(t, "jane@example.com", matches[0].Value)
	assert.Equal(t, 6, matches[0].Start)
	assert.Equal(t, 22, matches[0].End)
	assert.Equal(t, "AU_PHONE", matches[1].Type)
}

func TestAnonymizeRedact(t *testing.T) {
	s, err := scrub.New()
	require.NoError(t, err)
	defer s.Close()

	out, err := s.Anonymize(context.Background(), "email jane@example.com today")
	require.NoError(t, err)
	assert.Equal(t, "email [REDACTED] today", out)
}

func TestAnonymizeMask(t *testing.T) {
	s, err := scrub.New(scrub.WithStrategy("mask"))
	require.NoError(t, err)
	defer s.Close()

	out, err := s.Anonymize(context.Background(), "email jane@example.com today")
	require.NoError(t, err)
	assert.Equal(t, "email j***@example.com today", out)
}

func TestAnonymizeHashDeterministic(t *testing.T) {
	s, err := scrub.New(scrub.WithStrategy("hash"), scrub.WithHashSalt("pepper"))
	require.NoError(t, err)
	defer s.Close()

	first, err := s.Anonymize(context.Background(), "email jane@example.com")
	require.NoError(t, err)
	second, err := s.Anonymize(context.Background(), "email jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotContains(t, first, "jane@example.com")
}

func TestAnonymizeReplaceConsistent(t *testing.T) {
	s, err := scrub.New(scrub.WithStrategy("replace"), scrub.WithReplaceSeed(42))
	require.NoError(t, err)
	defer s.Close()

	out, err := s.Anonymize(context.Background(), "jane@example.com wrote, later jane@example.com called")
	require.NoError(t, err)
	assert.NotContains(t, out, "jane@example.com")

	// Both occurrences map to the same synthetic value.
	fields := strings.Fields(out)
	assert.Equal(t, fields[0], fields[3])
}

func TestEntityRestriction(t *testing.T) {
	s, err := scrub.New(scrub.WithEntities("EMAIL"))
	require.NoError(t, err)
	defer s.Close()

	matches, err := s.Detect(context.Background(), "email jane@example.com or call 0412 345 678")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "EMAIL", matches[0].Type)
}

func TestWhitelist(t *testing.T) {
	s, err := scrub.New(scrub.WithWhitelist([]string{"support@example.com"}, nil))
	require.NoError(t, err)
	defer s.Close()

	out, err := s.Anonymize(context.Background(), "cc support@example.com and jane@other.net")
	require.NoError(t, err)
	assert.Contains(t, out, "support@example.com")
	assert.NotContains(t, out, "jane@other.net")
}
