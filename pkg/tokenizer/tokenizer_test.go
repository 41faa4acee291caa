package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "one char", text: "a", want: 1},
		{name: "exact multiple", text: "abcdefgh", want: 2},
		{name: "rounds up", text: "abcdefghi", want: 3},
		{name: "counts runes not bytes", text: "ééééé", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate{}.Count(tt.text))
		})
	}
}

func TestNew_Estimate(t *testing.T) {
	c, err := New(EstimateEncoding)
	require.NoError(t, err)
	assert.Equal(t, "estimate", c.Name())
}

func TestNew_UnknownEncoding(t *testing.T) {
	_, err := New("no_such_encoding")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
}

func TestBPE_Cl100k(t *testing.T) {
	c, err := New("cl100k_base")
	require.NoError(t, err)
	assert.Equal(t, "cl100k_base", c.Name())

	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 2, c.Count("hello world"))

	long := strings.Repeat("token ", 100)
	first := c.Count(long)
	assert.Greater(t, first, 50)
	assert.Equal(t, first, c.Count(long), "counting must be deterministic")
}
