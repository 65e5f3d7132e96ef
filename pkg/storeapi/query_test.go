package storeapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func TestEncodeParamsRepeatsArrayKeys(t *testing.T) {
	assert.Equal(t, "ids=1&ids=2", EncodeParams(map[string]any{"ids": []int{1, 2}}))
	assert.Equal(t, "group=a&group=b", EncodeParams(map[string]any{"group": []string{"a", "b"}}))
	assert.Equal(t, "mixed=x&mixed=3", EncodeParams(map[string]any{"mixed": []any{"x", 3, nil}}))
}

func TestEncodeParamsScalarsAndOrdering(t *testing.T) {
	approved := true
	var missing *string
	when := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	got := EncodeParams(map[string]any{
		"size":     20,
		"approved": &approved,
		"missing":  missing,
		"nothing":  nil,
		"keyword":  "hello world",
		"since":    when,
		"tag":      label("x"),
	})

	assert.Equal(t, "approved=true&keyword=hello+world&since=2024-03-01T08%3A00%3A00Z&size=20&tag=label%3Ax", got)
}

func TestEncodeParamsEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeParams(nil))
	assert.Equal(t, "", EncodeParams(map[string]any{"ids": []int{}}))
}
