package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	northSea   = "Characterization of Calanus finmarchicus habitat in the North Sea"
	typoSea    = "Characterization of Calunus finmarchicus habitat in the North Sea"
	glacialSea = "Characterization of Calanus glacialissss habitat in the South Sea"
)

func TestCorrelate(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"both blank after normalization", "  --  ", "!!", 1.0},
		{"one empty", "A title", "", 0.0},
		{"identical", "A title", "A title", 1.0},
		{"case and punctuation ignored", "Reinforcement learning:An introduction", "reinforcement learning: an INTRODUCTION", 1.0},
		{"diacritics folded", "Café Müller", "Cafe Muller", 1.0},
		{"single rune padded", "A", "a", 1.0},
		{"different single runes", "A", "B", 0.0},
		// A one-word typo stays close to 1 but not within 0.01 of it: the
		// changed rune breaks two of the 64 bigram pairs.
		{"one word typo", northSea, typoSea, 0.96875},
		{"two words replaced", northSea, glacialSea, 0.75},
		{"typo versus replaced", typoSea, glacialSea, 0.71875},
		{"prefixed title", "A title", "Another title", 10.0 / 18.0},
		{"repeated bigrams matched once each", "aaaa", "aa", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Correlate(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Correlate(tt.b, tt.a), 1e-9, "correlation must be symmetric")
		})
	}
}

func TestCorrelate_SmallEditsScoreAboveLargeOnes(t *testing.T) {
	small := Correlate(northSea, typoSea)
	large := Correlate(northSea, glacialSea)

	assert.Greater(t, small, 0.95)
	assert.Greater(t, small-large, 0.15)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Hello,   World!  ", "hello world"},
		{"Chapter One – Down the Rabbit Hole", "chapter one down the rabbit hole"},
		{"10.1016/j.is.2004.02.002", "10 1016 j is 2004 02 002"},
		{"Ærøskøbing", "ærøskøbing"},
		{"naïve", "naive"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestBigrams(t *testing.T) {
	assert.Nil(t, Bigrams(""))
	assert.Equal(t, []string{" x", "x "}, Bigrams("X"))
	assert.Equal(t, []string{"a ", " t", "ti", "it", "tl", "le"}, Bigrams("A title"))
}
