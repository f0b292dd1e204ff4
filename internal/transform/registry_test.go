package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	r := Builtins()

	assert.Equal(t, []string{
		"determine_dx_version",
		"determine_rx_code_type",
		"format_date_yyyy_mm_dd",
		"set_zero_cost",
		"set_zero_utilization",
		"transform_sex",
	}, r.Names())
	assert.True(t, r.Has(NameSex))
	assert.False(t, r.Has("calculate_age"))
	assert.Nil(t, r.Get("calculate_age"))
}

func TestApply(t *testing.T) {
	r := Builtins()

	out, err := r.Apply(NameZeroCost, []string{"0", "1", "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "0", "0"}, out)
}

func TestApply_UnknownTransform(t *testing.T) {
	_, err := Builtins().Apply("calculate_age", []string{"1"})
	require.ErrorIs(t, err, ErrUnknownTransform)
	assert.Contains(t, err.Error(), "calculate_age")
}

func TestApply_WrongLength(t *testing.T) {
	r := NewRegistry()
	r.Register("short", func(in []string) []string { return in[:0] })

	_, err := r.Apply("short", []string{"a", "b"})
	require.ErrorIs(t, err, ErrTransformFailed)
}

func TestApply_Panic(t *testing.T) {
	r := NewRegistry()
	r.Register("boom", func([]string) []string { panic("bad row") })

	out, err := r.Apply("boom", []string{"a"})
	require.ErrorIs(t, err, ErrTransformFailed)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "bad row")
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	r := NewRegistry()
	r.Register("upper", func(in []string) []string {
		in[0] = "X"
		return in
	})

	in := []string{"a"}
	out, err := r.Apply("upper", in)
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, out)
	assert.Equal(t, []string{"a"}, in)
}
