package ner

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxSeqLen = 128

// word is one whitespace- or punctuation-delimited token with its byte span
// in the original text. Spans survive tokenization so model predictions can
// be mapped back to exact offsets.
type word struct {
	text  string
	start int
	end   int
}

// window is one model-ready sequence. Long texts are split into several
// windows at word boundaries.
type window struct {
	inputIDs      []int64
	attentionMask []int64
	tokenTypeIDs  []int64
	// wordIndex maps each sequence position to an index into words, or -1
	// for [CLS], [SEP] and padding.
	wordIndex []int
	words     []word
	seqLen    int64
}

// tokenizer performs BERT-style WordPiece tokenization while keeping the
// byte offsets of every word.
type tokenizer struct {
	vocab *vocab
}

func newTokenizer(vocabPath string) (*tokenizer, error) {
	v, err := loadVocab(vocabPath)
	if err != nil {
		return nil, err
	}
	return &tokenizer{vocab: v}, nil
}

// encode splits text into model windows. Words are never split across a
// window boundary.
func (t *tokenizer) encode(text string) []window {
	words := wordSplit(text)
	if len(words) == 0 {
		return nil
	}

	capacity := maxSeqLen - 2
	var windows []window
	var curWords []word
	var curSubs [][]string
	curLen := 0

	flush := func() {
		if len(curWords) == 0 {
			return
		}
		windows = append(windows, t.pack(curWords, curSubs))
		curWords, curSubs, curLen = nil, nil, 0
	}

	for _, w := range words {
		subs := t.wordpiece(normalizeWord(w.text))
		if len(subs) > capacity {
			subs = subs[:capacity]
		}
		if curLen+len(subs) > capacity {
			flush()
		}
		curWords = append(curWords, w)
		curSubs = append(curSubs, subs)
		curLen += len(subs)
	}
	flush()
	return windows
}

// pack builds the padded tensor slices for one window.
func (t *tokenizer) pack(words []word, subs [][]string) window {
	w := window{
		inputIDs:      make([]int64, maxSeqLen),
		attentionMask: make([]int64, maxSeqLen),
		tokenTypeIDs:  make([]int64, maxSeqLen),
		wordIndex:     make([]int, maxSeqLen),
		words:         words,
		seqLen:        maxSeqLen,
	}
	for i := range w.wordIndex {
		w.wordIndex[i] = -1
	}

	w.inputIDs[0] = t.vocab.clsID
	w.attentionMask[0] = 1
	pos := 1
	for wi, sub := range subs {
		for _, s := range sub {
			w.inputIDs[pos] = t.vocab.lookup(s)
			w.attentionMask[pos] = 1
			w.wordIndex[pos] = wi
			pos++
		}
	}
	w.inputIDs[pos] = t.vocab.sepID
	w.attentionMask[pos] = 1
	return w
}

// wordpiece decomposes one normalized word into subword tokens.
func (t *tokenizer) wordpiece(token string) []string {
	runes := []rune(token)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) > 200 {
		return []string{"[UNK]"}
	}

	var subTokens []string
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := false
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if t.vocab.contains(sub) {
				subTokens = append(subTokens, sub)
				found = true
				break
			}
			end--
		}
		if !found {
			return []string{"[UNK]"}
		}
		start = end
	}
	return subTokens
}

// wordSplit breaks text on whitespace and punctuation, recording byte
// offsets. Punctuation characters become their own words, matching BERT's
// BasicTokenizer split behavior.
func wordSplit(text string) []word {
	var words []word
	start := -1
	for i, r := range text {
		switch {
		case isWhitespace(r) || isControl(r):
			if start >= 0 {
				words = append(words, word{text[start:i], start, i})
				start = -1
			}
		case isPunctuation(r):
			if start >= 0 {
				words = append(words, word{text[start:i], start, i})
				start = -1
			}
			words = append(words, word{string(r), i, i + len(string(r))})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		words = append(words, word{text[start:], start, len(text)})
	}
	return words
}

// normalizeWord lowercases and strips accents for vocabulary lookup. The
// original word text and offsets are untouched.
func normalizeWord(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}
