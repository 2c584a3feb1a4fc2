package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/scrub/internal/model"
)

func mk(t *testing.T, entity string, start, end int, conf float64) model.Match {
	t.Helper()
	m, err := model.NewMatch(entity, "x", start, end, conf, model.SourceRule)
	require.NoError(t, err)
	return m
}

func TestDeduplicateKeepsMaxConfidence(t *testing.T) {
	in := []model.Match{
		mk(t, "EMAIL", 0, 17, 0.7),
		mk(t, "EMAIL", 0, 17, 0.9),
		mk(t, "EMAIL", 0, 17, 0.8),
	}
	out := Deduplicate(in)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.9, out[0].Confidence, 0.001)
}

func TestDeduplicateDistinctTypesSurvive(t *testing.T) {
	in := []model.Match{
		mk(t, "EMAIL", 0, 17, 0.7),
		mk(t, "PERSON", 0, 17, 0.7),
	}
	assert.Len(t, Deduplicate(in), 2)
}

func TestMergeOverlapsHigherConfidenceWins(t *testing.T) {
	// PERSON inside a lower-confidence EMAIL span: PERSON wins the cluster.
	in := []model.Match{
		mk(t, "EMAIL", 0, 17, 0.7),
		mk(t, "PERSON", 0, 10, 0.9),
	}
	out := MergeOverlaps(in)
	require.Len(t, out, 1)
	assert.Equal(t, "PERSON", out[0].Type)
}

func TestMergeOverlapsTieGoesToLonger(t *testing.T) {
	in := []model.Match{
		mk(t, "AU_PHONE", 5, 15, 0.8),
		mk(t, "AU_PHONE", 5, 12, 0.8),
	}
	out := MergeOverlaps(in)
	require.Len(t, out, 1)
	assert.Equal(t, 15, out[0].End)
}

func TestMergeOverlapsEqualKeepsIncumbent(t *testing.T) {
	// Same confidence, same length: the earlier (current) winner stays.
	a := mk(t, "AU_TFN", 0, 9, 0.5)
	b := mk(t, "AU_DRIVER_LICENSE", 0, 9, 0.5)
	out := MergeOverlaps([]model.Match{a, b})
	require.Len(t, out, 1)
	assert.Equal(t, "AU_TFN", out[0].Type)
}

func TestMergeOverlapsDisjointUntouched(t *testing.T) {
	in := []model.Match{
		mk(t, "EMAIL", 20, 30, 0.9),
		mk(t, "AU_PHONE", 0, 10, 0.8),
	}
	out := MergeOverlaps(in)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Start)
	assert.Equal(t, 20, out[1].Start)
}

func TestMergeOverlapsAdjacentNotOverlapping(t *testing.T) {
	// Half-open spans: [0,5) and [5,10) do not overlap.
	in := []model.Match{
		mk(t, "A", 0, 5, 0.9),
		mk(t, "B", 5, 10, 0.1),
	}
	assert.Len(t, MergeOverlaps(in), 2)
}

func TestReconcileChain(t *testing.T) {
	in := []model.Match{
		mk(t, "EMAIL", 0, 17, 0.7),
		mk(t, "EMAIL", 0, 17, 0.9),
		mk(t, "PERSON", 0, 10, 0.95),
		mk(t, "AU_PHONE", 30, 42, 0.85),
	}
	out := Reconcile(in)
	require.Len(t, out, 2)
	assert.Equal(t, "PERSON", out[0].Type)
	assert.Equal(t, "AU_PHONE", out[1].Type)
}

func TestEmptyInput(t *testing.T) {
	assert.Nil(t, Deduplicate(nil))
	assert.Nil(t, MergeOverlaps(nil))
	assert.Nil(t, Reconcile(nil))
}
