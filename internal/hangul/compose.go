package hangul

import "strings"

// composeState enumerates what the assembler is waiting for. Together with
// the pending lead/vowel/trail runes it fully describes progress through
// the current block.
type composeState int

const (
	// stateIdle: nothing pending, awaiting a leading consonant.
	stateIdle composeState = iota
	// stateLead: a leading consonant is pending, awaiting a vowel.
	stateLead
	// stateVowelOnly: a bare vowel is pending; a second vowel may still
	// merge it into a compound vowel.
	stateVowelOnly
	// stateVowel: lead+vowel pending, awaiting a trailing consonant, a
	// compound-vowel extension, or the next block's lead.
	stateVowel
	// stateTrail: lead+vowel+one trailing consonant pending. A following
	// vowel reassigns the trailing consonant to the next block.
	stateTrail
	// stateAmbiguous: lead+vowel and two consonants that form a valid
	// compound trail. One more unit of lookahead decides whether the
	// second consonant closes this block or opens the next one.
	stateAmbiguous
)

// assembler reassembles a jamo stream into composed syllable blocks.
type assembler struct {
	out   strings.Builder
	state composeState

	lead  rune
	vowel rune
	trail rune
	extra rune // second consonant held in stateAmbiguous
}

// Compose reassembles atomic jamo in text into composed syllable blocks,
// greedily completing the longest valid block before starting the next.
// Characters that cannot take part in a block are emitted verbatim, so
// composition never fails. Input that decomposition would not produce is
// assembled best-effort.
func Compose(text string) string {
	a := assembler{}
	a.out.Grow(len(text))
	for _, r := range text {
		a.feed(r)
	}
	a.flush()
	return a.out.String()
}

func (a *assembler) feed(r rune) {
	switch a.state {
	case stateIdle:
		a.feedIdle(r)
	case stateLead:
		a.feedLead(r)
	case stateVowelOnly:
		a.feedVowelOnly(r)
	case stateVowel:
		a.feedVowel(r)
	case stateTrail:
		a.feedTrail(r)
	case stateAmbiguous:
		a.feedAmbiguous(r)
	}
}

func (a *assembler) feedIdle(r rune) {
	switch {
	case IsLeadingConsonant(r):
		a.lead = r
		a.state = stateLead
	case isVowel(r):
		a.vowel = r
		a.state = stateVowelOnly
	default:
		a.out.WriteRune(r)
	}
}

func (a *assembler) feedLead(r rune) {
	switch {
	case isVowel(r):
		a.vowel = r
		a.state = stateVowel
	case IsLeadingConsonant(r):
		// Two leads in a row: the first cannot form a block.
		a.out.WriteRune(a.lead)
		a.lead = r
	default:
		a.out.WriteRune(a.lead)
		a.state = stateIdle
		a.feedIdle(r)
	}
}

func (a *assembler) feedVowelOnly(r rune) {
	if isVowel(r) {
		if merged, ok := mergeVowel[[2]rune{a.vowel, r}]; ok {
			a.out.WriteRune(merged)
			a.state = stateIdle
			return
		}
		a.out.WriteRune(a.vowel)
		a.vowel = r
		return
	}

	a.out.WriteRune(a.vowel)
	a.state = stateIdle
	a.feedIdle(r)
}

func (a *assembler) feedVowel(r rune) {
	switch {
	case isVowel(r):
		if merged, ok := mergeVowel[[2]rune{a.vowel, r}]; ok {
			a.vowel = merged
			return
		}
		// The block closes without a trail; the new vowel stands alone.
		a.writeBlock(a.lead, a.vowel, 0)
		a.vowel = r
		a.state = stateVowelOnly
	case isTrailing(r):
		// Deferred decision: a vowel after r would make it the next lead.
		a.trail = r
		a.state = stateTrail
	case IsLeadingConsonant(r):
		// Lead-only consonant (cannot trail) opens the next block.
		a.writeBlock(a.lead, a.vowel, 0)
		a.lead = r
		a.state = stateLead
	default:
		a.writeBlock(a.lead, a.vowel, 0)
		a.state = stateIdle
		a.feedIdle(r)
	}
}

func (a *assembler) feedTrail(r rune) {
	switch {
	case isVowel(r):
		// Resyllabification: the held consonant leads the next block.
		if IsLeadingConsonant(a.trail) {
			a.writeBlock(a.lead, a.vowel, 0)
			a.lead = a.trail
			a.vowel = r
			a.trail = 0
			a.state = stateVowel
			return
		}
		// A trail-only consonant (compound jamo) cannot move; close the
		// block and let the vowel stand alone.
		a.writeBlock(a.lead, a.vowel, a.trail)
		a.vowel = r
		a.trail = 0
		a.state = stateVowelOnly
	case isTrailing(r) && mergeableTrail(a.trail, r):
		a.extra = r
		a.state = stateAmbiguous
	case IsLeadingConsonant(r):
		a.writeBlock(a.lead, a.vowel, a.trail)
		a.lead = r
		a.trail = 0
		a.state = stateLead
	default:
		a.writeBlock(a.lead, a.vowel, a.trail)
		a.trail = 0
		a.state = stateIdle
		a.feedIdle(r)
	}
}

func (a *assembler) feedAmbiguous(r rune) {
	if isVowel(r) {
		// The second consonant belongs to the next block.
		a.writeBlock(a.lead, a.vowel, a.trail)
		a.lead = a.extra
		a.vowel = r
		a.trail, a.extra = 0, 0
		a.state = stateVowel
		return
	}

	// Anything else confirms the compound trail.
	a.writeBlock(a.lead, a.vowel, mergeTrail[[2]rune{a.trail, a.extra}])
	a.trail, a.extra = 0, 0
	a.state = stateIdle
	a.feedIdle(r)
}

// flush emits whatever block is pending at end of input.
func (a *assembler) flush() {
	switch a.state {
	case stateLead:
		a.out.WriteRune(a.lead)
	case stateVowelOnly:
		a.out.WriteRune(a.vowel)
	case stateVowel:
		a.writeBlock(a.lead, a.vowel, 0)
	case stateTrail:
		a.writeBlock(a.lead, a.vowel, a.trail)
	case stateAmbiguous:
		a.writeBlock(a.lead, a.vowel, mergeTrail[[2]rune{a.trail, a.extra}])
	}
	a.state = stateIdle
}

func mergeableTrail(first, second rune) bool {
	_, ok := mergeTrail[[2]rune{first, second}]
	return ok
}

// writeBlock emits the composed block for the given components. trail 0
// means no trailing consonant.
func (a *assembler) writeBlock(lead, vowel, trail rune) {
	li, lok := leadIndex[lead]
	vi, vok := vowelIndex[vowel]
	if !lok || !vok {
		// Unreachable via the state machine, but stay total.
		a.out.WriteRune(lead)
		a.out.WriteRune(vowel)
		if trail != 0 {
			a.out.WriteRune(trail)
		}
		return
	}

	ti := 0
	if trail != 0 {
		ti = trailIndex[trail]
	}

	a.out.WriteRune(rune(syllableBase + li*vowelsPerLead + vi*trailsPerVowel + ti))
}
