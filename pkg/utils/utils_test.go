package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	got := ExtractHashtags("What a finish! #INDvAUS #WorldCup #indvaus #T20_WC")
	assert.Equal(t, []string{"indvaus", "worldcup", "t20_wc"}, got)
	assert.Empty(t, ExtractHashtags("no tags here"))
}

func TestExtractMentions(t *testing.T) {
	got := ExtractMentions("@virat and @Rohit_45 chased it down, well played @virat")
	assert.Equal(t, []string{"virat", "Rohit_45"}, got)
}

func TestGenerateRandomToken(t *testing.T) {
	a := GenerateRandomToken(64)
	b := GenerateRandomToken(64)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Len(t, GenerateRandomToken(7), 7)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
