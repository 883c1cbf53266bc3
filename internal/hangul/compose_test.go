package hangul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lead and vowel",
			input:    "ㄱㅏ",
			expected: "가",
		},
		{
			name:     "lead, vowel and trail",
			input:    "ㄱㅏㄱ",
			expected: "각",
		},
		{
			name:     "trail reassigned before vowel",
			input:    "ㄱㅏㄱㅣ",
			expected: "가기",
		},
		{
			name:     "compound vowel merges",
			input:    "ㄱㅗㅏ",
			expected: "과",
		},
		{
			name:     "compound vowel then next block",
			input:    "ㄱㅗㅏㄱㅏ",
			expected: "과가",
		},
		{
			name:     "compound trail at end of input",
			input:    "ㄱㅏㄹㄱ",
			expected: "갉",
		},
		{
			name:     "compound trail split by following vowel",
			input:    "ㄱㅏㄹㄱㅣ",
			expected: "갈기",
		},
		{
			name:     "compound trail confirmed by following consonant",
			input:    "ㄷㅏㄹㄱㄱㅗㅏ",
			expected: "닭과",
		},
		{
			name:     "resyllabification across blocks",
			input:    "ㄱㅏㅂㅅㅇㅓㅊㅣ",
			expected: "값어치",
		},
		{
			name:     "lead-only consonant closes previous block",
			input:    "ㄱㅏㄸㅗ",
			expected: "가또",
		},
		{
			name:     "standalone vowels merge",
			input:    "ㅗㅏ",
			expected: "ㅘ",
		},
		{
			name:     "standalone vowels that cannot merge",
			input:    "ㅏㅓ",
			expected: "ㅏㅓ",
		},
		{
			name:     "dangling lead",
			input:    "ㄱ",
			expected: "ㄱ",
		},
		{
			name:     "two leads in a row",
			input:    "ㄱㄴㅏ",
			expected: "ㄱ나",
		},
		{
			name:     "non-jamo passes through",
			input:    "ㄱㅏ-note",
			expected: "가-note",
		},
		{
			name:     "already composed passes through",
			input:    "한글",
			expected: "한글",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Compose(tc.input))
		})
	}
}

func TestCompose_RoundTrip(t *testing.T) {
	// compose(decompose(x)) == x for well-formed text.
	inputs := []string{
		"가",
		"각",
		"갉",
		"과",
		"괴",
		"갈기",
		"가기",
		"갉갉",
		"값어치",
		"한글",
		"검색 엔진",
		"제주도 여행 계획",
		"닭과 돼지",
		"메모-2024.md",
		"plain ascii",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, input, Compose(Decompose(input)))
		})
	}
}

func TestCompose_TrailOnlyJamoBeforeVowel(t *testing.T) {
	// A compound jamo cannot lead the next block, so the block closes
	// and the vowel stands alone. Best-effort for input decomposition
	// never produces.
	assert.Equal(t, "갃ㅏ", Compose("ㄱㅏㄳㅏ"))
}

func BenchmarkCompose(b *testing.B) {
	text := Decompose("한글 검색 엔진은 음절 단위로 동작한다")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Compose(text)
	}
}
