package hangul

// Composed syllable blocks occupy a contiguous Unicode range. A block's
// code point is an arithmetic function of its component indices:
// base + lead*588 + vowel*28 + trail, where trail 0 means "no trailing
// consonant".
const (
	syllableBase = 0xAC00
	syllableLast = 0xD7A3

	vowelsPerLead  = 588 // 21 vowels x 28 trails
	trailsPerVowel = 28
)

// leads holds the 19 leading consonants in code-point order.
var leads = [19]rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ',
	'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// vowels holds the 21 vowels in code-point order, compound vowels included.
var vowels = [21]rune{
	'ㅏ', 'ㅐ', 'ㅑ', 'ㅒ', 'ㅓ', 'ㅔ', 'ㅕ', 'ㅖ', 'ㅗ', 'ㅘ', 'ㅙ',
	'ㅚ', 'ㅛ', 'ㅜ', 'ㅝ', 'ㅞ', 'ㅟ', 'ㅠ', 'ㅡ', 'ㅢ', 'ㅣ',
}

// trails holds the 28 trailing positions in code-point order.
// Index 0 is the empty trailing consonant.
var trails = [28]rune{
	0, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ', 'ㄹ', 'ㄺ', 'ㄻ', 'ㄼ', 'ㄽ',
	'ㄾ', 'ㄿ', 'ㅀ', 'ㅁ', 'ㅂ', 'ㅄ', 'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// compoundVowels maps each compound vowel to the two simple vowels it is
// built from. Decomposition emits the pair; composition merges the pair back.
var compoundVowels = map[rune][2]rune{
	'ㅘ': {'ㅗ', 'ㅏ'},
	'ㅙ': {'ㅗ', 'ㅐ'},
	'ㅚ': {'ㅗ', 'ㅣ'},
	'ㅝ': {'ㅜ', 'ㅓ'},
	'ㅞ': {'ㅜ', 'ㅔ'},
	'ㅟ': {'ㅜ', 'ㅣ'},
	'ㅢ': {'ㅡ', 'ㅣ'},
}

// compoundTrails maps each compound trailing consonant to its two parts.
var compoundTrails = map[rune][2]rune{
	'ㄳ': {'ㄱ', 'ㅅ'},
	'ㄵ': {'ㄴ', 'ㅈ'},
	'ㄶ': {'ㄴ', 'ㅎ'},
	'ㄺ': {'ㄹ', 'ㄱ'},
	'ㄻ': {'ㄹ', 'ㅁ'},
	'ㄼ': {'ㄹ', 'ㅂ'},
	'ㄽ': {'ㄹ', 'ㅅ'},
	'ㄾ': {'ㄹ', 'ㅌ'},
	'ㄿ': {'ㄹ', 'ㅍ'},
	'ㅀ': {'ㄹ', 'ㅎ'},
	'ㅄ': {'ㅂ', 'ㅅ'},
}

// Reverse lookups, built once at package init.
var (
	leadIndex  map[rune]int
	vowelIndex map[rune]int
	trailIndex map[rune]int // excludes the empty position

	mergeVowel map[[2]rune]rune
	mergeTrail map[[2]rune]rune
)

func init() {
	leadIndex = make(map[rune]int, len(leads))
	for i, r := range leads {
		leadIndex[r] = i
	}

	vowelIndex = make(map[rune]int, len(vowels))
	for i, r := range vowels {
		vowelIndex[r] = i
	}

	trailIndex = make(map[rune]int, len(trails)-1)
	for i, r := range trails {
		if i == 0 {
			continue
		}
		trailIndex[r] = i
	}

	mergeVowel = make(map[[2]rune]rune, len(compoundVowels))
	for compound, parts := range compoundVowels {
		mergeVowel[parts] = compound
	}

	mergeTrail = make(map[[2]rune]rune, len(compoundTrails))
	for compound, parts := range compoundTrails {
		mergeTrail[parts] = compound
	}
}
