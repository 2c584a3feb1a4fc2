package anonymize

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
)

// Replace substitutes realistic synthetic values. A shared cache keeps the
// mapping stable within a run: the same email always becomes the same fake
// email, so cross-references in the text survive anonymization.
type Replace struct {
	faker          *gofakeit.Faker
	cache          *Cache
	preserveFormat bool
}

// NewReplace builds the replace strategy. Seed 0 gives a random generator;
// a fixed seed makes output reproducible.
func NewReplace(cfg config.ReplaceConfig, cache *Cache) *Replace {
	if cache == nil {
		cache = NewCache()
	}
	return &Replace{
		faker:          gofakeit.New(cfg.Seed),
		cache:          cache,
		preserveFormat: cfg.PreserveFormat,
	}
}

func (r *Replace) Name() string { return "replace" }

func (r *Replace) Apply(m model.Match) (string, error) {
	key := m.Type + "|" + m.Value
	return r.cache.getOrSet(key, func() string {
		return r.generate(m)
	}), nil
}

func (r *Replace) generate(m model.Match) string {
	switch m.Type {
	case "PERSON":
		return r.faker.Name()
	case "EMAIL":
		return r.fakeEmail(m.Value)
	case "ORG":
		return r.faker.Company()
	case "LOC", "GPE":
		return r.faker.City()
	case "AU_ADDRESS":
		return r.faker.Street()
	case "IP_ADDRESS":
		if strings.Contains(m.Value, ":") {
			return r.faker.IPv6Address()
		}
		return r.faker.IPv4Address()
	case "CREDIT_CARD":
		return r.faker.CreditCardNumber(nil)
	default:
		// Phone numbers, TFNs, Medicare numbers, device identifiers: keep
		// the exact shape, randomize the characters.
		return r.shapePreserve(m.Value)
	}
}

// fakeEmail fabricates a local part. With preserve_format the original
// domain is kept, which matters when routing rules inspect domains.
func (r *Replace) fakeEmail(orig string) string {
	if r.preserveFormat {
		if at := strings.LastIndexByte(orig, '@'); at > 0 {
			return strings.ToLower(r.faker.Username()) + orig[at:]
		}
	}
	return r.faker.Email()
}

// shapePreserve replaces digits with digits and letters with same-case
// letters, leaving separators alone.
func (r *Replace) shapePreserve(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, c := range v {
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(byte('0' + r.faker.Number(0, 9)))
		case c >= 'a' && c <= 'z':
			b.WriteByte(byte('a' + r.faker.Number(0, 25)))
		case c >= 'A' && c <= 'Z':
			b.WriteByte(byte('A' + r.faker.Number(0, 25)))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
