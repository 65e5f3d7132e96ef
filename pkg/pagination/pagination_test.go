package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSize(t *testing.T) {
	assert.Equal(t, DefaultSize, NormalizeSize(0))
	assert.Equal(t, DefaultSize, NormalizeSize(-3))
	assert.Equal(t, 7, NormalizeSize(7))
	assert.Equal(t, MaxSize, NormalizeSize(MaxSize+1))
}

func TestParamsOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: -1, Size: 10}.Offset())
	assert.Equal(t, 30, Params{Page: 3, Size: 10}.Offset())
	assert.Equal(t, 2*DefaultSize, Params{Page: 2}.Offset())
}

func TestWindowFlags(t *testing.T) {
	tests := []struct {
		name        string
		page, size  int
		total       int64
		totalPages  int
		hasNext     bool
		hasPrevious bool
		first, last bool
	}{
		{name: "empty", page: 0, size: 10, total: 0, totalPages: 0, first: true, last: true},
		{name: "single partial page", page: 0, size: 10, total: 4, totalPages: 1, first: true, last: true},
		{name: "first of three", page: 0, size: 10, total: 25, totalPages: 3, hasNext: true, first: true},
		{name: "middle", page: 1, size: 10, total: 25, totalPages: 3, hasNext: true, hasPrevious: true},
		{name: "last exact", page: 2, size: 10, total: 30, totalPages: 3, hasPrevious: true, last: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.totalPages, w.TotalPages())
			assert.Equal(t, tt.hasNext, w.HasNext())
			assert.Equal(t, tt.hasPrevious, w.HasPrevious())
			assert.Equal(t, tt.first, w.First())
			assert.Equal(t, tt.last, w.Last())
			assert.LessOrEqual(t, w.Total, int64(w.Size*w.TotalPages()))
		})
	}
}
