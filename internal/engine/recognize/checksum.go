package recognize

import "strings"

// digitsOf strips every non-digit character.
func digitsOf(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidLuhn reports whether the digits of s pass the Luhn check.
// Used for credit card numbers (13-19 digits).
func ValidLuhn(s string) bool {
	digits := digitsOf(s)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	total := 0
	second := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if second {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		total += d
		second = !second
	}
	return total%10 == 0
}

// tfnWeights for the 8- and 9-digit tax file number formats.
var (
	tfnWeights9 = []int{1, 4, 3, 7, 5, 8, 6, 9, 10}
	tfnWeights8 = []int{10, 7, 8, 4, 6, 3, 5, 1}
)

// ValidTFN reports whether s is a checksum-valid Australian tax file number.
func ValidTFN(s string) bool {
	digits := digitsOf(s)
	var weights []int
	switch len(digits) {
	case 9:
		weights = tfnWeights9
	case 8:
		weights = tfnWeights8
	default:
		return false
	}
	sum := 0
	for i, w := range weights {
		sum += w * int(digits[i]-'0')
	}
	return sum%11 == 0
}

// ValidMedicare reports whether s is a checksum-valid Australian Medicare
// number (10 or 11 digits; the 11th is the individual reference number).
func ValidMedicare(s string) bool {
	digits := digitsOf(s)
	if len(digits) != 10 && len(digits) != 11 {
		return false
	}
	if digits[0] < '2' || digits[0] > '6' {
		return false
	}
	weights := []int{1, 3, 7, 9, 1, 3, 7, 9}
	sum := 0
	for i, w := range weights {
		sum += w * int(digits[i]-'0')
	}
	return sum%10 == int(digits[8]-'0')
}

// ValidABN reports whether s is a checksum-valid Australian business number.
func ValidABN(s string) bool {
	digits := digitsOf(s)
	if len(digits) != 11 {
		return false
	}
	weights := []int{10, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19}
	sum := 0
	for i, w := range weights {
		d := int(digits[i] - '0')
		if i == 0 {
			d--
		}
		sum += w * d
	}
	return sum%89 == 0
}

// ValidSSN reports whether s has a plausible US social security number shape:
// area not 000/666/9xx, group not 00, serial not 0000.
func ValidSSN(s string) bool {
	digits := digitsOf(s)
	if len(digits) != 9 {
		return false
	}
	area := int(digits[0]-'0')*100 + int(digits[1]-'0')*10 + int(digits[2]-'0')
	if area == 0 || area == 666 || area >= 900 {
		return false
	}
	if digits[3:5] == "00" || digits[5:9] == "0000" {
		return false
	}
	return true
}
