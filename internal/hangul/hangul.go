// Package hangul decomposes composed Hangul syllable blocks into their
// atomic jamo and reassembles jamo sequences back into blocks.
//
// Both directions are total: characters outside the script pass through
// unchanged and never produce an error. Decomposition expands compound
// vowels and compound trailing consonants into their two simple parts, so
// Compose(Decompose(text)) == text holds for any well-formed input.
package hangul

import "strings"

// IsSyllable reports whether r is a composed syllable block.
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}

// IsLeadingConsonant reports whether r is one of the 19 leading consonants.
func IsLeadingConsonant(r rune) bool {
	_, ok := leadIndex[r]
	return ok
}

// isVowel reports whether r is one of the 21 vowels.
func isVowel(r rune) bool {
	_, ok := vowelIndex[r]
	return ok
}

// isTrailing reports whether r can occupy the trailing-consonant position.
func isTrailing(r rune) bool {
	_, ok := trailIndex[r]
	return ok
}

// LeadingConsonantOf returns the leading consonant of a composed block,
// or r itself when r is not composed.
func LeadingConsonantOf(r rune) rune {
	if !IsSyllable(r) {
		return r
	}
	return leads[(r-syllableBase)/vowelsPerLead]
}

// Initials maps every composed block in text to its leading consonant and
// keeps all other characters as they are. "한글 노트" becomes "ㅎㄱ ㄴㅌ".
func Initials(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(LeadingConsonantOf(r))
	}
	return b.String()
}

// OnlyLeadingConsonants reports whether text is non-empty and consists
// solely of leading-consonant jamo.
func OnlyLeadingConsonants(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !IsLeadingConsonant(r) {
			return false
		}
	}
	return true
}

// ContainsSyllable reports whether text contains at least one composed block.
func ContainsSyllable(text string) bool {
	return strings.ContainsFunc(text, IsSyllable)
}

// Decompose splits every composed block in text into its atomic jamo,
// expanding compound vowels and compound trailing consonants into their
// two simple parts. Bare jamo and foreign characters pass through.
func Decompose(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 2)

	for _, r := range text {
		if !IsSyllable(r) {
			b.WriteRune(r)
			continue
		}

		offset := r - syllableBase
		lead := leads[offset/vowelsPerLead]
		vowel := vowels[(offset%vowelsPerLead)/trailsPerVowel]
		trail := trails[offset%trailsPerVowel]

		b.WriteRune(lead)

		if parts, ok := compoundVowels[vowel]; ok {
			b.WriteRune(parts[0])
			b.WriteRune(parts[1])
		} else {
			b.WriteRune(vowel)
		}

		if trail == 0 {
			continue
		}
		if parts, ok := compoundTrails[trail]; ok {
			b.WriteRune(parts[0])
			b.WriteRune(parts[1])
		} else {
			b.WriteRune(trail)
		}
	}

	return b.String()
}
