package dialog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilenameFoldsWidthAndStripsSpace(t *testing.T) {
	got := NormalizeFilename("Ａ１ 月次　レポート")
	assert.Equal(t, "A1月次レポート", got)
}

func TestNormalizeFilenameIdempotent(t *testing.T) {
	once := NormalizeFilename("Ｂ２ 指示　書")
	assert.Equal(t, once, NormalizeFilename(once))
}

func TestValidateFilenameAccepts(t *testing.T) {
	name, err := ValidateFilename("月次レポート8月")
	require.NoError(t, err)
	assert.Equal(t, "月次レポート8月", name)
}

func TestValidateFilenameSeventeenRunesOK(t *testing.T) {
	input := strings.Repeat("あ", 17)
	name, err := ValidateFilename(input)
	require.NoError(t, err)
	assert.Equal(t, input, name)
}

func TestValidateFilenameEighteenRunesRejected(t *testing.T) {
	_, err := ValidateFilename(strings.Repeat("あ", 18))
	assert.ErrorIs(t, err, ErrFilenameTooLong)
}

func TestValidateFilenameLengthCountsAfterNormalization(t *testing.T) {
	// 18 runes of input, but the space disappears before counting.
	input := strings.Repeat("あ", 10) + " " + strings.Repeat("い", 7)
	_, err := ValidateFilename(input)
	assert.NoError(t, err)
}

func TestValidateFilenameForbiddenChars(t *testing.T) {
	for _, input := range []string{
		"a/b", `a\b`, "a:b", "a*b", "a?b", `a"b`, "a<b", "a>b", "a|b", "a_b",
	} {
		_, err := ValidateFilename(input)
		assert.ErrorIs(t, err, ErrFilenameForbidden, "input %q", input)
	}
}

func TestValidateFilenameFullWidthColonRejected(t *testing.T) {
	// Width folding turns the full-width colon into a forbidden one.
	_, err := ValidateFilename("指示：書")
	assert.ErrorIs(t, err, ErrFilenameForbidden)
}

func TestValidateFilenameEmpty(t *testing.T) {
	_, err := ValidateFilename("   ")
	assert.ErrorIs(t, err, ErrFilenameEmpty)
}
