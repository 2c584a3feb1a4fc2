package recognize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/scrub/internal/model"
)

func detectAll(t *testing.T, text string) []model.Match {
	t.Helper()
	r := New(DefaultRules(), 0.2, 40)
	matches, err := r.Detect(context.Background(), text)
	require.NoError(t, err)
	return matches
}

func findEntity(matches []model.Match, entity string) (model.Match, bool) {
	for _, m := range matches {
		if m.Type == entity {
			return m, true
		}
	}
	return model.Match{}, false
}

func TestDetectEmail(t *testing.T) {
	matches := detectAll(t, "Please reach me at jane.doe@example.com.au for details")
	m, ok := findEntity(matches, "EMAIL")
	require.True(t, ok)
	assert.Equal(t, "jane.doe@example.com.au", m.Value)
	assert.Equal(t, model.SourceRule, m.Source)
	assert.InDelta(t, 0.9, m.Confidence, 0.001)
}

func TestDetectMobilePhone(t *testing.T) {
	matches := detectAll(t, "customer mobile is 0412 345 678, call after 9am")
	m, ok := findEntity(matches, "AU_PHONE")
	require.True(t, ok)
	assert.Equal(t, "0412 345 678", m.Value)
	// 0.9 base + 0.2 boost from "mobile", capped at 1.0.
	assert.InDelta(t, 1.0, m.Confidence, 0.001)
}

func TestDetectCreditCardChecksum(t *testing.T) {
	t.Run("valid luhn", func(t *testing.T) {
		matches := detectAll(t, "charged to 4532015112830366 yesterday")
		m, ok := findEntity(matches, "CREDIT_CARD")
		require.True(t, ok)
		assert.Equal(t, "4532015112830366", m.Value)
	})
	t.Run("invalid luhn dropped", func(t *testing.T) {
		matches := detectAll(t, "charged to 4532015112830367 yesterday")
		_, ok := findEntity(matches, "CREDIT_CARD")
		assert.False(t, ok)
	})
}

func TestDetectTFNContextBoost(t *testing.T) {
	t.Run("with context", func(t *testing.T) {
		matches := detectAll(t, "Customer TFN: 123 456 782 on file")
		m, ok := findEntity(matches, "AU_TFN")
		require.True(t, ok)
		assert.InDelta(t, 0.55, m.Confidence, 0.001)
	})
	t.Run("without context", func(t *testing.T) {
		matches := detectAll(t, "reference 123 456 782 logged")
		m, ok := findEntity(matches, "AU_TFN")
		require.True(t, ok)
		assert.InDelta(t, 0.35, m.Confidence, 0.001)
	})
	t.Run("checksum failure dropped", func(t *testing.T) {
		matches := detectAll(t, "Customer TFN: 123 456 789 on file")
		_, ok := findEntity(matches, "AU_TFN")
		assert.False(t, ok)
	})
}

func TestDetectMedicare(t *testing.T) {
	matches := detectAll(t, "medicare card number 2123 45670 1 expires 2027")
	m, ok := findEntity(matches, "AU_MEDICARE")
	require.True(t, ok)
	assert.InDelta(t, 0.6, m.Confidence, 0.001)
}

func TestDetectABN(t *testing.T) {
	matches := detectAll(t, "billing entity ABN 51 824 753 556")
	m, ok := findEntity(matches, "AU_ABN")
	require.True(t, ok)
	assert.Equal(t, "51 824 753 556", m.Value)
	assert.InDelta(t, 0.5, m.Confidence, 0.001)
}

func TestBareNumericsStayLow(t *testing.T) {
	matches := detectAll(t, "order total was 12345678 units shipped")
	m, ok := findEntity(matches, "AU_DRIVER_LICENSE")
	require.True(t, ok)
	assert.InDelta(t, 0.05, m.Confidence, 0.001)

	boosted := detectAll(t, "driver licence no: 12345678")
	bm, ok := findEntity(boosted, "AU_DRIVER_LICENSE")
	require.True(t, ok)
	assert.Greater(t, bm.Confidence, 0.5)
}

func TestDetectNBNIdentifiers(t *testing.T) {
	matches := detectAll(t, "service LOC000012345678 on AVC000098765432 via POI-SYD01")
	_, ok := findEntity(matches, "AU_NBN_LOC_ID")
	assert.True(t, ok)
	_, ok = findEntity(matches, "AU_NBN_SERVICE_ID")
	assert.True(t, ok)
}

func TestDetectAddress(t *testing.T) {
	matches := detectAll(t, "installed at 42 Wallaby Way, Sydney NSW 2000 last week")
	m, ok := findEntity(matches, "AU_ADDRESS")
	require.True(t, ok)
	assert.InDelta(t, 0.95, m.Confidence, 0.001)
}

func TestDetectCancelled(t *testing.T) {
	r := New(DefaultRules(), 0.2, 40)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Detect(ctx, "some text with an email a@b.co in it")
	assert.Error(t, err)
}

func TestBadPatternSkipped(t *testing.T) {
	rules := []Rule{{
		Entity: "BROKEN",
		Patterns: []Pattern{
			{"bad", `[unclosed`, 0.5},
			{"good", `\bGOODVAL\b`, 0.5},
		},
	}}
	r := New(rules, 0.2, 40)
	matches, err := r.Detect(context.Background(), "value GOODVAL here")
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
}
