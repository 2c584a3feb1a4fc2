// Package ner runs a local ONNX token classification model and maps its
// BIO-tagged predictions back to byte offsets in the input text.
package ner

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/crimson-sun/scrub/internal/model"
)

// DefaultLabels is the label set of a CoNLL-trained BIO model, in output
// index order.
var DefaultLabels = []string{
	"O",
	"B-PER", "I-PER",
	"B-ORG", "I-ORG",
	"B-LOC", "I-LOC",
	"B-MISC", "I-MISC",
}

// entityNames maps model tag suffixes to match entity types.
var entityNames = map[string]string{
	"PER":  "PERSON",
	"ORG":  "ORG",
	"LOC":  "LOC",
	"MISC": "MISC",
}

// Oracle is a model-based detector backed by an ONNX session. Safe for
// concurrent use; the ONNX runtime serializes access internally.
type Oracle struct {
	session   *onnxSession
	tok       *tokenizer
	labels    []string
	threshold float64
}

// New loads the model and vocabulary. labels must match the model's output
// dimension and order; pass DefaultLabels for CoNLL-style models. Spans whose
// mean softmax probability falls below threshold are discarded.
func New(modelPath, vocabPath string, labels []string, threshold float64) (*Oracle, error) {
	if len(labels) == 0 {
		labels = DefaultLabels
	}

	sess, err := newONNXSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	if int(sess.numLabels) != len(labels) {
		sess.close()
		return nil, fmt.Errorf("ner: model has %d labels, config lists %d", sess.numLabels, len(labels))
	}

	tok, err := newTokenizer(vocabPath)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("ner: %w", err)
	}

	return &Oracle{session: sess, tok: tok, labels: labels, threshold: threshold}, nil
}

// Detect tokenizes text, runs inference window by window, and returns the
// decoded entity spans with byte-accurate offsets.
func (o *Oracle) Detect(ctx context.Context, text string) ([]model.Match, error) {
	var out []model.Match
	for _, w := range o.tok.encode(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logits, err := o.session.infer(w)
		if err != nil {
			return nil, err
		}
		matches, err := o.decode(text, w, logits)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

// Close releases the ONNX session.
func (o *Oracle) Close() error {
	return o.session.close()
}

// wordPrediction is the label chosen for one word, taken from its first
// subtoken's logits.
type wordPrediction struct {
	label string
	prob  float64
}

// decode collapses subtoken logits to word-level predictions, then walks the
// BIO tags into entity spans.
func (o *Oracle) decode(text string, w window, logits []float32) ([]model.Match, error) {
	preds := make([]wordPrediction, len(w.words))
	seen := make([]bool, len(w.words))
	n := len(o.labels)

	for pos := 0; pos < int(w.seqLen); pos++ {
		wi := w.wordIndex[pos]
		if wi < 0 || seen[wi] {
			continue
		}
		seen[wi] = true
		idx, prob := argmaxSoftmax(logits[pos*n : (pos+1)*n])
		preds[wi] = wordPrediction{label: o.labels[idx], prob: prob}
	}

	var out []model.Match
	var ent string
	var startWord, endWord int
	var probSum float64
	var probCount int

	emit := func() error {
		if ent == "" {
			return nil
		}
		name, ok := entityNames[ent]
		if !ok {
			name = ent
		}
		start := w.words[startWord].start
		end := w.words[endWord].end
		conf := probSum / float64(probCount)
		if conf < o.threshold {
			ent = ""
			return nil
		}
		m, err := model.NewMatch(name, text[start:end], start, end, conf, model.SourceNER)
		if err != nil {
			return err
		}
		out = append(out, m)
		ent = ""
		return nil
	}

	for wi, p := range preds {
		tag, typ, okTag := splitTag(p.label)
		switch {
		case !okTag || tag == "O":
			if err := emit(); err != nil {
				return nil, err
			}
		case tag == "B" || (tag == "I" && ent != typ):
			if err := emit(); err != nil {
				return nil, err
			}
			ent = typ
			startWord, endWord = wi, wi
			probSum, probCount = p.prob, 1
		default: // I- continuing the open entity
			endWord = wi
			probSum += p.prob
			probCount++
		}
	}
	if err := emit(); err != nil {
		return nil, err
	}
	return out, nil
}

// splitTag parses "B-PER" into ("B", "PER"). "O" returns ("O", "", true).
func splitTag(label string) (tag, typ string, ok bool) {
	if label == "O" {
		return "O", "", true
	}
	i := strings.IndexByte(label, '-')
	if i <= 0 || i == len(label)-1 {
		return "", "", false
	}
	return label[:i], label[i+1:], true
}

// argmaxSoftmax returns the index of the largest logit and its softmax
// probability.
func argmaxSoftmax(logits []float32) (int, float64) {
	best := 0
	for i, v := range logits {
		if v > logits[best] {
			best = i
		}
	}
	var sum float64
	maxLogit := float64(logits[best])
	for _, v := range logits {
		sum += math.Exp(float64(v) - maxLogit)
	}
	return best, 1.0 / sum
}
