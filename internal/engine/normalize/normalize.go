// Package normalize prepares text for NER detection without disturbing
// character offsets.
package normalize

import (
	"regexp"
	"unicode"
)

// namePart matches one ALL-CAPS name token, including apostrophe (O'BRIEN)
// and hyphenated (SMITH-JONES) shapes.
const namePart = `(?:[A-Z]+'[A-Z]+|[A-Z]{2,}(?:-[A-Z]+)*)`

// capsName matches a personal title followed by 1-3 ALL-CAPS name tokens.
// Requiring the title prefix avoids rewriting technical tokens such as
// "UPLOAD SPEED" or unit abbreviations.
var capsName = regexp.MustCompile(
	`\b(?:MR|MRS|MS|MISS|DR|PROF|REV|SIR|DAME|LORD|LADY)\s+` + namePart + `(?:\s+` + namePart + `){0,2}\b`)

// Caps converts ALL-CAPS names with a title prefix to Title Case, improving
// recall of NER models trained on mixed-case text.
//
//	"Contacted MR BERNARD HYNES about" -> "Contacted Mr Bernard Hynes about"
//	"UPLOAD SPEED 24.95"               -> unchanged
//
// Invariant: the output has exactly the same length as the input, so entity
// positions reported against the normalized text map back 1:1.
func Caps(text string) string {
	return capsName.ReplaceAllStringFunc(text, titleCase)
}

// titleCase lowercases every letter that follows another letter, keeping word
// leads (including after apostrophes and hyphens) upper case. Works per rune
// and never changes the string length.
func titleCase(s string) string {
	rs := []rune(s)
	prevLetter := false
	for i, r := range rs {
		if unicode.IsLetter(r) {
			if prevLetter {
				rs[i] = unicode.ToLower(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(rs)
}
