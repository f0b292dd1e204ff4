package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords(t *testing.T) {
	tbl := FromRecords("Patient_Details", []string{"PatientID", "Age"}, []map[string]string{
		{"PatientID": "1", "Age": "38"},
		{"PatientID": "2", "Extra": "ignored"},
	})

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"1", "38"}, tbl.Rows[0])
	assert.Equal(t, []string{"2", ""}, tbl.Rows[1])
}

func TestColumn_RaggedRows(t *testing.T) {
	tbl := New("t", "a", "b", "c")
	tbl.Rows = [][]string{{"1", "2", "3"}, {"4"}}

	col, ok := tbl.Column("c")
	require.True(t, ok)
	assert.Equal(t, []string{"3", ""}, col)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
	assert.Equal(t, "", tbl.Cell(1, "b"))
	assert.Equal(t, "2", tbl.Cell(0, "b"))
}

func TestRecordAndRowIDs(t *testing.T) {
	tbl := New("t", "a", "b")
	tbl.AppendRow("x", "y")
	tbl.AppendRow("z")

	assert.Equal(t, map[string]string{"a": "z", "b": ""}, tbl.Record(1))
	assert.Equal(t, []string{"0", "1"}, tbl.RowIDs())
}

func TestClone_DoesNotShareRows(t *testing.T) {
	tbl := New("t", "a")
	tbl.AppendRow("1")

	c := tbl.Clone()
	c.Rows[0][0] = "changed"
	c.Columns[0] = "renamed"

	assert.Equal(t, "1", tbl.Rows[0][0])
	assert.Equal(t, "a", tbl.Columns[0])
}

func TestFilterAndConcat(t *testing.T) {
	tbl := New("t", "a")
	tbl.AppendRow("1")
	tbl.AppendRow("")
	tbl.AppendRow("3")

	kept := tbl.Filter(func(r int) bool { return tbl.Rows[r][0] != "" })
	assert.Equal(t, 2, kept.Len())

	kept.Concat(tbl)
	assert.Equal(t, 5, kept.Len())
	assert.Equal(t, 3, tbl.Len())
}

func TestNilTable(t *testing.T) {
	var tbl *Table

	assert.Equal(t, 0, tbl.Len())
	assert.True(t, tbl.IsEmpty())
}
