package anonymize

import (
	"strings"

	"github.com/crimson-sun/scrub/internal/config"
	"github.com/crimson-sun/scrub/internal/model"
)

// Mask hides most of each value while keeping enough structure to stay
// readable: separators survive, a configurable number of characters stay
// visible per entity type.
type Mask struct {
	char       byte
	email      int
	phone      int
	ssn        int
	creditCard int
}

// NewMask builds the mask strategy.
func NewMask(cfg config.MaskConfig) *Mask {
	char := byte('*')
	if cfg.MaskChar != "" {
		char = cfg.MaskChar[0]
	}
	return &Mask{
		char:       char,
		email:      orDefault(cfg.EmailVisibleChars, 1),
		phone:      orDefault(cfg.PhoneVisibleChars, 3),
		ssn:        orDefault(cfg.SSNVisibleChars, 4),
		creditCard: orDefault(cfg.CreditCardVisibleChars, 4),
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (k *Mask) Name() string { return "mask" }

// Apply masks according to entity type:
//
//	EMAIL        j***@example.com       (leading local-part chars kept, domain kept)
//	phone types  555-***-****           (leading digits kept)
//	SSN          ***-**-6789            (trailing digits kept)
//	CREDIT_CARD  ****-****-****-9010    (trailing digits kept)
//	IP_ADDRESS   192.168.***.***        (first two octets kept)
//	default      first character kept, rest masked
func (k *Mask) Apply(m model.Match) (string, error) {
	switch m.Type {
	case "EMAIL":
		return k.maskEmail(m.Value), nil
	case "AU_PHONE", "AU_SPECIAL_PHONE", "PHONE":
		return k.maskLeading(m.Value, k.phone), nil
	case "SSN", "AU_TFN":
		return k.maskTrailing(m.Value, k.ssn), nil
	case "CREDIT_CARD", "AU_MEDICARE":
		return k.maskTrailing(m.Value, k.creditCard), nil
	case "IP_ADDRESS":
		return k.maskIP(m.Value), nil
	default:
		return k.maskDefault(m.Value), nil
	}
}

// maskEmail keeps the first n characters of the local part and the whole
// domain.
func (k *Mask) maskEmail(v string) string {
	at := strings.LastIndexByte(v, '@')
	if at <= 0 {
		return k.maskAll(v)
	}
	local, domain := v[:at], v[at:]
	keep := k.email
	if keep >= len(local) {
		keep = 1
	}
	return local[:keep] + strings.Repeat(string(k.char), len(local)-keep) + domain
}

// maskDefault keeps the first character and masks the remainder.
func (k *Mask) maskDefault(v string) string {
	r := []rune(v)
	if len(r) < 2 {
		return v
	}
	return string(r[0]) + strings.Repeat(string(k.char), len(r)-1)
}

// maskLeading keeps the first n digits visible and masks the rest,
// preserving separators.
func (k *Mask) maskLeading(v string, visible int) string {
	b := []byte(v)
	seen := 0
	for i := range b {
		if !isDigitOrLetter(b[i]) {
			continue
		}
		if seen < visible {
			seen++
			continue
		}
		b[i] = k.char
	}
	return string(b)
}

// maskTrailing keeps the last n digits visible and masks the rest,
// preserving separators.
func (k *Mask) maskTrailing(v string, visible int) string {
	b := []byte(v)
	total := 0
	for i := range b {
		if isDigitOrLetter(b[i]) {
			total++
		}
	}
	seen := 0
	for i := range b {
		if !isDigitOrLetter(b[i]) {
			continue
		}
		seen++
		if seen <= total-visible {
			b[i] = k.char
		}
	}
	return string(b)
}

// maskIP keeps the first two IPv4 octets, or the first two IPv6 groups.
func (k *Mask) maskIP(v string) string {
	sep := "."
	parts := strings.Split(v, ".")
	if len(parts) != 4 {
		sep = ":"
		parts = strings.Split(v, ":")
		if len(parts) < 3 {
			return k.maskAll(v)
		}
	}
	for i := 2; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.Repeat(string(k.char), 3)
		}
	}
	return strings.Join(parts, sep)
}

// maskAll masks every alphanumeric character, keeping separators.
func (k *Mask) maskAll(v string) string {
	b := []byte(v)
	for i := range b {
		if isDigitOrLetter(b[i]) {
			b[i] = k.char
		}
	}
	return string(b)
}

func isDigitOrLetter(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
