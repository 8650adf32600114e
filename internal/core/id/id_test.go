package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_IsTimeOrdered(t *testing.T) {
	a := New()
	b := New()
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 7, int(a.Version()))
}

func TestSortedUnique(t *testing.T) {
	a, b, c := New(), New(), New()

	got := SortedUnique(c, Nil(), a, b, a)

	assert.Equal(t, []ID{a, b, c}, got)
}
