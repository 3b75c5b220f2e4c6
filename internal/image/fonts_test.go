package imagepkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitFaceWidthProperty(t *testing.T) {
	const maxWidth = 980.0
	for _, n := range []int{1, 14, 53, 300, 1000, 2000, 4000, 5000} {
		for _, ch := range []string{"M", "W", "i"} {
			text := strings.Repeat(ch, n)
			face, fit, err := fitFace(styleBold, 112, maxWidth, text)
			require.NoError(t, err)

			assert.LessOrEqual(t, fit.width, maxWidth, "%s x %d", ch, n)
			assert.InDelta(t, measure(face, fit.text), fit.width, 0.001)
			assert.LessOrEqual(t, fit.size, 112.0)
			assert.GreaterOrEqual(t, fit.size, minFontSize)
			if fit.truncated {
				assert.Equal(t, minFontSize, fit.size)
				assert.True(t, strings.HasSuffix(fit.text, ellipsis))
			} else {
				assert.Equal(t, text, fit.text)
			}
			face.Close()
		}
	}
}

func TestFitFaceTruncatesAtMinimumSize(t *testing.T) {
	text := strings.Repeat("W", 4000)
	face, fit, err := fitFace(styleBold, 112, 980, text)
	require.NoError(t, err)
	defer face.Close()

	assert.True(t, fit.truncated)
	assert.Equal(t, minFontSize, fit.size)
	assert.LessOrEqual(t, fit.width, 980.0)
	assert.True(t, strings.HasPrefix(fit.text, "WWWW"))
	assert.Less(t, len([]rune(fit.text)), len(text))

	// one more rune would no longer fit
	kept := []rune(strings.TrimSuffix(fit.text, ellipsis))
	assert.Greater(t, measure(face, string(kept)+"W"+ellipsis), 980.0)
}

func TestFitFaceNothingFits(t *testing.T) {
	face, fit, err := fitFace(styleBold, 112, 0.1, "DISCOUNT")
	require.NoError(t, err)
	defer face.Close()

	assert.True(t, fit.truncated)
	assert.Empty(t, fit.text)
	assert.Zero(t, fit.width)
}

func TestFitFaceKeepsSizeWhenItFits(t *testing.T) {
	face, fit, err := fitFace(styleRegular, 24, 980, "SERIAL: SN-ABC123XYZ")
	require.NoError(t, err)
	defer face.Close()

	assert.Equal(t, 24.0, fit.size)
	assert.Greater(t, fit.width, 0.0)
	assert.False(t, fit.truncated)
}

func TestFitFaceShrinksProportionally(t *testing.T) {
	text := "EXTRA SPECIAL MEGA DISCOUNT FOR EVERYONE TODAY ONLY"
	full, err := newFace(styleBold, 112)
	require.NoError(t, err)
	natural := measure(full, text)
	require.Greater(t, natural, 980.0)

	face, fit, err := fitFace(styleBold, 112, 980, text)
	require.NoError(t, err)
	defer face.Close()

	assert.Less(t, fit.size, 112.0)
	assert.LessOrEqual(t, fit.width, 980.0)
	assert.False(t, fit.truncated)
	// close to the proportional estimate, not collapsed to a tiny size
	assert.InDelta(t, 112*980/natural, fit.size, 3)
}

func TestFontStylesParse(t *testing.T) {
	for _, s := range []fontStyle{styleRegular, styleMedium, styleBold, styleItalic} {
		face, err := newFace(s, 20)
		require.NoError(t, err)
		assert.Greater(t, measure(face, "abc"), 0.0)
		face.Close()
	}
}
