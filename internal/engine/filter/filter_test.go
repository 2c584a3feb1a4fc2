package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/scrub/internal/model"
)

func mustMatch(t *testing.T, entity, value string, start int, source model.Source) model.Match {
	t.Helper()
	m, err := model.NewMatch(entity, value, start, start+len(value), 0.8, source)
	require.NoError(t, err)
	return m
}

func TestApplyDropsSkipEntities(t *testing.T) {
	text := "call me on Monday at 3pm"
	in := []model.Match{
		mustMatch(t, "DATE_TIME", "Monday", 11, model.SourceNER),
		mustMatch(t, "CARDINAL", "3", 21, model.SourceNER),
	}
	out := New(nil, false).Apply(text, in)
	assert.Empty(t, out)
}

func TestApplyLexiconPersonFirstWord(t *testing.T) {
	f := New(nil, false)

	t.Run("greeting leaked into span", func(t *testing.T) {
		text := "Hi John, your modem shipped"
		in := []model.Match{mustMatch(t, "PERSON", "Hi John", 0, model.SourceNER)}
		assert.Empty(t, f.Apply(text, in))
	})

	t.Run("real name passes", func(t *testing.T) {
		text := "spoke with John Smith about the fault"
		in := []model.Match{mustMatch(t, "PERSON", "John Smith", 11, model.SourceNER)}
		out := f.Apply(text, in)
		require.Len(t, out, 1)
		assert.Equal(t, "John Smith", out[0].Value)
	})
}

func TestApplyExtraWords(t *testing.T) {
	f := New([]string{"Acme"}, false)
	text := "Acme reported the outage"
	in := []model.Match{mustMatch(t, "ORG", "Acme", 0, model.SourceNER)}
	assert.Empty(t, f.Apply(text, in))
}

func TestApplyRuleMatchesPassThrough(t *testing.T) {
	// Lexicon and skip list apply to model output only.
	text := "Monday"
	in := []model.Match{mustMatch(t, "DATE_OF_BIRTH", "Monday", 0, model.SourceRule)}
	out := New(nil, false).Apply(text, in)
	assert.Len(t, out, 1)
}

func TestApplyLexiconAnyWordInSpan(t *testing.T) {
	f := New(nil, false)

	t.Run("org containing lexicon word dropped", func(t *testing.T) {
		text := "Telstra Support called this morning"
		in := []model.Match{mustMatch(t, "ORG", "Telstra Support", 0, model.SourceNER)}
		assert.Empty(t, f.Apply(text, in))
	})

	t.Run("org with no lexicon words survives", func(t *testing.T) {
		text := "Bigpond Holdings called this morning"
		in := []model.Match{mustMatch(t, "ORG", "Bigpond Holdings", 0, model.SourceNER)}
		assert.Len(t, f.Apply(text, in), 1)
	})
}

func TestReclassifyTitlePrefix(t *testing.T) {
	text := "please contact Mr Hynes regarding the invoice"
	in := []model.Match{mustMatch(t, "ORG", "Hynes", 18, model.SourceNER)}
	out := New(nil, false).Apply(text, in)
	require.Len(t, out, 1)
	assert.Equal(t, "PERSON", out[0].Type)
}

func TestReclassifySingleCapWord(t *testing.T) {
	text := "Bernard called about the bill"
	in := []model.Match{mustMatch(t, "ORG", "Bernard", 0, model.SourceNER)}

	t.Run("enabled", func(t *testing.T) {
		out := New(nil, true).Apply(text, in)
		require.Len(t, out, 1)
		assert.Equal(t, "PERSON", out[0].Type)
	})
	t.Run("disabled", func(t *testing.T) {
		out := New(nil, false).Apply(text, in)
		require.Len(t, out, 1)
		assert.Equal(t, "ORG", out[0].Type)
	})
}

func TestReclassifyIgnoresShortWords(t *testing.T) {
	// Two-character tokens are initials and acronyms, not surnames.
	text := "Vu reported the fault"
	in := []model.Match{mustMatch(t, "ORG", "Vu", 0, model.SourceNER)}
	out := New(nil, true).Apply(text, in)
	require.Len(t, out, 1)
	assert.Equal(t, "ORG", out[0].Type)
}

func TestReclassifyLeavesMultiWordOrg(t *testing.T) {
	text := "escalated to Optus Networks Pty Ltd"
	in := []model.Match{mustMatch(t, "ORG", "Networks Pty Ltd", 19, model.SourceNER)}
	out := New(nil, true).Apply(text, in)
	require.Len(t, out, 1)
	assert.Equal(t, "ORG", out[0].Type)
}
