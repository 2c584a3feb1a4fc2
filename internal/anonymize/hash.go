package anonymize

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
)

// Hash replaces values with a salted digest. Identical values hash to
// identical tokens, so joins across anonymized documents still work.
type Hash struct {
	algorithm string
	salt      string
	prefix    bool
	truncate  int
}

// NewHash builds the hash strategy.
func NewHash(cfg config.HashConfig) *Hash {
	alg := cfg.Algorithm
	if alg == "" {
		alg = "sha256"
	}
	return &Hash{
		algorithm: alg,
		salt:      cfg.Salt,
		prefix:    cfg.Prefix,
		truncate:  cfg.Truncate,
	}
}

func (h *Hash) Name() string { return "hash" }

func (h *Hash) Apply(m model.Match) (string, error) {
	var hasher hash.Hash
	switch h.algorithm {
	case "md5":
		hasher = md5.New()
	case "sha1":
		hasher = sha1.New()
	case "sha256":
		hasher = sha256.New()
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", h.algorithm)
	}

	hasher.Write([]byte(h.salt))
	hasher.Write([]byte(m.Value))
	digest := hex.EncodeToString(hasher.Sum(nil))

	if h.truncate > 0 && h.truncate < len(digest) {
		digest = digest[:h.truncate]
	}
	if h.prefix {
		return m.Type + "_" + digest, nil
	}
	return digest, nil
}
