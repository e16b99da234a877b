package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, expected int
	}{
		{count: 0, size: 20, expected: 1},
		{count: 1, size: 20, expected: 1},
		{count: 20, size: 20, expected: 1},
		{count: 21, size: 20, expected: 2},
		{count: 1000, size: 20, expected: 50},
		{count: 5, size: 0, expected: 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TotalPages(tt.count, tt.size), "count=%d size=%d", tt.count, tt.size)
	}
}

func TestPageState_Clamp(t *testing.T) {
	assert.Equal(t, 1, PageState{Page: 0, Size: 20}.Clamp(100).Page)
	assert.Equal(t, 5, PageState{Page: 9, Size: 20}.Clamp(100).Page)
	assert.Equal(t, 1, PageState{Page: 3, Size: 20}.Clamp(0).Page)
	assert.Equal(t, 2, PageState{Page: 2, Size: 20}.Clamp(21).Page)
}

func TestPageState_Offset(t *testing.T) {
	off := NewPageState(3, 20).Offset()

	assert.Equal(t, 20, off.Limit)
	assert.Equal(t, 40, off.Offset)
}
