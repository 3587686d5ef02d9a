package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	p, l := NormalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, DefaultPageLimit, l)

	p, l = NormalizePage(3, 25)
	assert.Equal(t, 3, p)
	assert.Equal(t, 25, l)

	p, l = NormalizePage(-2, -1)
	assert.Equal(t, 1, p)
	assert.Equal(t, DefaultPageLimit, l)
}

func TestPagerNumbers(t *testing.T) {
	tests := []struct {
		total int
		want  []int
	}{
		{1, []int{1}},
		{3, []int{1, 2, 3}},
		{5, []int{1, 2, 3, 4, 5}},
		{9, []int{1, 2, 3, 4, 5, 0, 9}},
	}
	for _, tt := range tests {
		g := NewPager(Pagination{CurrentPage: 1, TotalPages: tt.total})
		assert.Equal(t, tt.want, g.Numbers(), "total=%d", tt.total)
	}
}

func TestPagerNavigation(t *testing.T) {
	g := NewPager(Pagination{CurrentPage: 1, TotalPages: 3, TotalPosts: 25, Limit: 10, HasNextPage: true})
	assert.True(t, g.Visible())
	assert.False(t, g.CanPrev())
	assert.True(t, g.CanNext())
	assert.Equal(t, 1, g.Prev())
	assert.Equal(t, 2, g.Next())

	last := NewPager(Pagination{CurrentPage: 3, TotalPages: 3, HasPrevPage: true})
	assert.Equal(t, 3, last.Next())
	assert.Equal(t, 2, last.Prev())

	empty := NewPager(Pagination{})
	assert.False(t, empty.Visible())
	assert.Equal(t, 1, empty.Total())
}

func TestPaginationConsistent(t *testing.T) {
	assert.True(t, Pagination{}.Consistent())
	assert.True(t, Pagination{CurrentPage: 2, TotalPages: 3, TotalPosts: 25, HasNextPage: true, HasPrevPage: true}.Consistent())
	assert.False(t, Pagination{CurrentPage: 3, TotalPages: 3, TotalPosts: 25, HasNextPage: true, HasPrevPage: true}.Consistent())
	assert.False(t, Pagination{CurrentPage: 4, TotalPages: 3, TotalPosts: 25, HasPrevPage: true}.Consistent())
}
