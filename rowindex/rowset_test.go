package rowindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSet_AllRowsInitially(t *testing.T) {
	r := New(10, 15)
	assert.Equal(t, []int{10, 11, 12, 13, 14}, r.Rows())
}

func TestRowSet_IntersectFromAllRows(t *testing.T) {
	r := New(0, 10)
	r.IntersectRows([]int{2, 4, 6, 20})
	assert.Equal(t, []int{2, 4, 6}, r.Rows())
}

func TestRowSet_IntersectFromRowVector(t *testing.T) {
	r := New(0, 10)
	r.IntersectRows([]int{1, 2, 3, 4, 5})
	r.IntersectRows([]int{3, 4, 5, 6, 7})
	assert.Equal(t, []int{3, 4, 5}, r.Rows())
}

func TestRowSet_IntersectFromBitVector(t *testing.T) {
	r := New(0, 10)
	r.IntersectRows([]int{1, 2, 3, 4, 5, 6, 7})
	r.toBitVector()
	require.Equal(t, modeBitVector, r.mode)

	r.IntersectRows([]int{3, 5})
	assert.Equal(t, []int{3, 5}, r.Rows())
}

func TestRowSet_FilterRowsRequiresBitVectorMode(t *testing.T) {
	r := New(0, 5)
	assert.Panics(t, func() {
		r.FilterRows(func(row int) bool { return true })
	})
}

func TestRowSet_FilterRows(t *testing.T) {
	r := New(0, 10)
	r.toBitVector()
	r.FilterRows(func(row int) bool { return row%2 == 0 })
	assert.Equal(t, []int{0, 2, 4, 6, 8}, r.Rows())
}

func TestRowSet_TakeBitVectorResetsToAllRows(t *testing.T) {
	r := New(5, 8)
	r.IntersectRows([]int{6})
	bv := r.TakeBitVector()
	assert.Equal(t, []bool{false, true, false}, bv)
	assert.Equal(t, []int{5, 6, 7}, r.Rows()) // reset to AllRows
}

func TestRowSet_TakeRowVectorResetsToAllRows(t *testing.T) {
	r := New(0, 5)
	r.IntersectRows([]int{1, 3})
	rv := r.TakeRowVector()
	assert.Equal(t, []int{1, 3}, rv)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, r.Rows())
}

func TestRowSet_BitVectorToRowVectorConversion(t *testing.T) {
	r := New(0, 5)
	r.toBitVector()
	r.FilterRows(func(row int) bool { return row == 2 || row == 4 })
	rv := r.TakeRowVector()
	assert.Equal(t, []int{2, 4}, rv)
}

func TestRowSet_RowVectorToBitVectorConversion(t *testing.T) {
	r := New(0, 5)
	r.IntersectRows([]int{1, 3})
	bv := r.toBitVectorForTest()
	assert.Equal(t, []bool{false, true, false, true, false}, bv)
}

// toBitVectorForTest exposes the unexported conversion for assertion
// without consuming (resetting) the RowSet, unlike TakeBitVector.
func (r *RowSet) toBitVectorForTest() []bool {
	r.toBitVector()
	return r.bits
}
