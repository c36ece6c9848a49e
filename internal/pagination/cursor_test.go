package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 1},
		{20, 1},
		{21, 2},
		{45, 3},
		{60, 3},
	}
	for _, tt := range tests {
		c := New(20)
		c.SetTotal(tt.total)
		assert.Equal(t, tt.want, c.TotalPages(), "total %d", tt.total)
	}
}

func TestGoto_SkipAndClamp(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultPerPage, c.PerPage())
	c.SetTotal(45)

	assert.True(t, c.Goto(2))
	assert.Equal(t, 40, c.Skip())

	assert.False(t, c.Goto(7))
	assert.Equal(t, 2, c.Page())
	assert.False(t, c.Next())
	assert.False(t, c.HasNext())

	assert.True(t, c.Goto(-4))
	assert.Equal(t, 0, c.Page())
	assert.False(t, c.Prev())
	assert.True(t, c.Next())
	assert.True(t, c.HasPrev())
}

func TestSetTotal_Reclamps(t *testing.T) {
	c := New(20)
	c.SetTotal(100)
	c.Goto(4)
	c.SetTotal(30)
	assert.Equal(t, 1, c.Page())

	c.SetTotal(0)
	assert.Equal(t, 0, c.Page())
	assert.Equal(t, 0, c.Skip())
}

func TestReset(t *testing.T) {
	c := New(20)
	c.SetTotal(100)
	c.Goto(3)
	c.Reset()
	assert.Equal(t, 0, c.Page())
	assert.Equal(t, 100, c.Total())
}

func TestRange(t *testing.T) {
	c := New(20)
	first, last := c.Range()
	assert.Zero(t, first)
	assert.Zero(t, last)

	c.SetTotal(45)
	c.Goto(2)
	first, last = c.Range()
	assert.Equal(t, 41, first)
	assert.Equal(t, 45, last)
}
