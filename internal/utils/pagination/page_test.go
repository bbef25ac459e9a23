package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Normalize(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = Normalize(3, 50)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PageSize)

	p = Normalize(-1, MaxPageSize+1)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
}

func TestOffsetAndLimit(t *testing.T) {
	p := Normalize(3, 20)
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, 20, p.Limit())
}

func TestNextPage(t *testing.T) {
	p := Normalize(1, 20)

	// 45 rows: pages 1..3
	next := p.NextPage(45)
	if assert.NotNil(t, next) {
		assert.Equal(t, 2, *next)
	}

	last := Normalize(3, 20)
	assert.Nil(t, last.NextPage(45))

	// exactly one page
	assert.Nil(t, Normalize(1, 20).NextPage(20))
}

func TestPreviousPage(t *testing.T) {
	assert.Nil(t, Normalize(1, 20).PreviousPage())

	prev := Normalize(2, 20).PreviousPage()
	if assert.NotNil(t, prev) {
		assert.Equal(t, 1, *prev)
	}
}
