package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/sere/alphabet"
)

func table(t *testing.T, names ...string) *alphabet.Table {
	t.Helper()
	tab, err := alphabet.TableOf(names)
	require.NoError(t, err)
	return tab
}

func TestClassify(t *testing.T) {
	c, err := New(table(t, "login", "error"), map[string][]string{
		"login": {"logged in", "login ok"},
		"error": {"ERROR", "panic:"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Keywords())

	tests := []struct {
		line string
		want alphabet.Letter
	}{
		{"", 0},
		{"nothing to see", 0},
		{"user bob logged in", 1},
		{"ERROR: disk full", 2},
		{"login ok then panic: nil map", 3},
		{"error in lower case", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify([]byte(tt.line)), tt.line)
	}
	assert.Equal(t, []bool{true, true}, c.Values([]byte("panic: after login ok"), 2))
}

func TestOverlappingKeywords(t *testing.T) {
	c, err := New(table(t, "short", "long", "inner"), map[string][]string{
		"short": {"log"},
		"long":  {"login"},
		"inner": {"gin"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, alphabet.Letter(7), c.Classify([]byte("login")))
	assert.Equal(t, alphabet.Letter(1), c.Classify([]byte("blog")))
	assert.Equal(t, alphabet.Letter(4), c.Classify([]byte("engine")))
}

func TestFoldCase(t *testing.T) {
	c, err := New(table(t, "error"), map[string][]string{"error": {"Error"}}, true)
	require.NoError(t, err)
	assert.Equal(t, alphabet.Letter(1), c.Classify([]byte("FATAL ERROR")))
	assert.Equal(t, alphabet.Letter(1), c.Classify([]byte("an error")))
}

func TestNewErrors(t *testing.T) {
	_, err := New(table(t, "a", "b"), map[string][]string{"a": {"x"}}, false)
	assert.ErrorIs(t, err, ErrNoKeywords)

	_, err = New(table(t, "a"), map[string][]string{"a": {"x"}, "typo": {"y"}}, false)
	assert.ErrorIs(t, err, ErrUnknownPredicate)

	_, err = New(table(t, "a"), map[string][]string{"a": {""}}, false)
	assert.Error(t, err)
}

func TestNoPredicates(t *testing.T) {
	c, err := New(alphabet.NewTable(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, alphabet.Letter(0), c.Classify([]byte("anything")))
}
