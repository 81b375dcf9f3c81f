package summarizer_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/summarizer"
)

func TestParseSuggestion(t *testing.T) {
	s, err := summarizer.ParseSuggestion(`{"excerpt":" Redo 와 Undo 로그 정리 ","tags":["MySQL","InnoDB","mysql"," ","Database"],"error":null}`)
	require.NoError(t, err)
	assert.Equal(t, "Redo 와 Undo 로그 정리", s.Excerpt)
	assert.Equal(t, []string{"MySQL", "InnoDB", "Database"}, s.Tags)
}

func TestParseSuggestionStripsCodeFence(t *testing.T) {
	s, err := summarizer.ParseSuggestion("```json\n{\"excerpt\":\"x\",\"tags\":[\"Go\",\"gin\",\"MongoDB\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "x", s.Excerpt)
}

func TestParseSuggestionLimits(t *testing.T) {
	long := strings.Repeat("가", summarizer.MaxExcerptRunes+50)
	s, err := summarizer.ParseSuggestion(`{"excerpt":"` + long + `","tags":["a","b","c","d","e","f","g","h","i"]}`)
	require.NoError(t, err)
	assert.Equal(t, summarizer.MaxExcerptRunes, utf8.RuneCountInString(s.Excerpt))
	assert.Len(t, s.Tags, summarizer.MaxTags)
}

func TestParseSuggestionReportsModelError(t *testing.T) {
	_, err := summarizer.ParseSuggestion(`{"excerpt":"","tags":[],"error":"bot check page"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot check page")

	_, err = summarizer.ParseSuggestion("not json")
	assert.Error(t, err)
}

func TestParseSuggestionRejectsTooFewTags(t *testing.T) {
	s, err := summarizer.ParseSuggestion(`{"excerpt":"짧은 글","tags":["Go","go"," ","Kafka"]}`)
	require.ErrorIs(t, err, summarizer.ErrTooFewTags)
	require.NotNil(t, s)
	assert.Equal(t, []string{"Go", "Kafka"}, s.Tags)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := summarizer.New(context.Background(), "", "gemini-2.5-flash")
	assert.ErrorIs(t, err, summarizer.ErrNotConfigured)
}
