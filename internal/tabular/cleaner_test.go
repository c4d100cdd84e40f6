package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowOf(pairs ...string) Row {
	r := make(Row, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		v := pairs[i+1]
		r[pairs[i]] = &v
	}
	return r
}

func TestClean_NormalizeAndDedup(t *testing.T) {
	table := &Table{
		Columns: []string{"email", "phone"},
		Rows: []Row{
			rowOf("email", " A@B.com ", "phone", "(555) 123-4567"),
			rowOf("email", "a@b.com", "phone", "5551234567"),
		},
	}

	res := Clean(table, Options{
		EmailColumns: []string{"email"},
		PhoneColumns: []string{"phone"},
		KeyColumns:   []string{"email"},
	})

	assert.Equal(t, 2, res.Summary.RowsIn)
	assert.Equal(t, 1, res.Summary.RowsOut)
	assert.Equal(t, 1, res.Summary.DuplicatesRemoved)
	assert.Equal(t, 0, res.Summary.InvalidEmails)
	assert.Equal(t, 0, res.Summary.InvalidPhones)

	require.Len(t, res.Rows, 1)
	require.NotNil(t, res.Rows[0]["email"])
	assert.Equal(t, "a@b.com", *res.Rows[0]["email"])
	require.NotNil(t, res.Rows[0]["phone"])
	assert.Equal(t, "+15551234567", *res.Rows[0]["phone"])
}

func TestClean_InvalidCellsTaggedNotDropped(t *testing.T) {
	table := &Table{
		Columns: []string{"email", "phone"},
		Rows: []Row{
			rowOf("email", "not-an-email", "phone", "123"),
		},
	}

	res := Clean(table, Options{
		EmailColumns: []string{"email"},
		PhoneColumns: []string{"phone"},
	})

	assert.Equal(t, 1, res.Summary.InvalidEmails)
	assert.Equal(t, 1, res.Summary.InvalidPhones)
	assert.Equal(t, 1, res.Summary.RowsOut)
	assert.Equal(t, "not-an-email", *res.Rows[0]["email"])
	assert.Equal(t, "123", *res.Rows[0]["phone"])
}

func TestClean_NoKeyColumnsRemovesNothing(t *testing.T) {
	table := &Table{
		Columns: []string{"name"},
		Rows: []Row{
			rowOf("name", "same"),
			rowOf("name", "same"),
			rowOf("name", "same"),
		},
	}

	res := Clean(table, Options{})

	assert.Equal(t, 3, res.Summary.RowsOut)
	assert.Equal(t, 0, res.Summary.DuplicatesRemoved)
}

func TestClean_KeyComparisonIgnoresCaseAndPadding(t *testing.T) {
	table := &Table{
		Columns: []string{"name", "city"},
		Rows: []Row{
			rowOf("name", "Alice", "city", "Rome"),
			rowOf("name", "  ALICE  ", "city", "Paris"),
		},
	}

	res := Clean(table, Options{KeyColumns: []string{"name"}})

	assert.Equal(t, 1, res.Summary.RowsOut)
	assert.Equal(t, 1, res.Summary.DuplicatesRemoved)
	assert.Equal(t, "Rome", *res.Rows[0]["city"], "first occurrence wins")
}

func TestClean_MissingKeyColumnIsEmptySegment(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Rows: []Row{
			rowOf("a", "x"),          // no "b"
			rowOf("a", "x", "b", ""), // same key: ("x", "")
		},
	}

	res := Clean(table, Options{KeyColumns: []string{"a", "b"}})

	assert.Equal(t, 1, res.Summary.RowsOut)
	assert.Equal(t, 1, res.Summary.DuplicatesRemoved)
}

func TestClean_RowsInEqualsRowsOutPlusRemoved(t *testing.T) {
	table := &Table{
		Columns: []string{"k"},
		Rows: []Row{
			rowOf("k", "1"), rowOf("k", "2"), rowOf("k", "1"),
			rowOf("k", "3"), rowOf("k", "2"), rowOf("k", "1"),
		},
	}

	res := Clean(table, Options{KeyColumns: []string{"k"}})

	assert.Equal(t, res.Summary.RowsIn, res.Summary.RowsOut+res.Summary.DuplicatesRemoved)
	assert.Equal(t, 3, res.Summary.RowsOut)
}

func TestClean_EmptyInput(t *testing.T) {
	res := Clean(&Table{}, Options{KeyColumns: []string{"id"}})

	assert.Equal(t, 0, res.Summary.RowsIn)
	assert.Equal(t, 0, res.Summary.RowsOut)
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Preview)
}

func TestClean_AllRowsRemovedKeepsHeaderColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"id", "email"},
		Rows: []Row{
			rowOf("id", "1", "email", "a@b.com"),
			rowOf("id", "1", "email", "a@b.com"),
		},
	}
	// Both rows share a key; one survives, so columns come from it. The
	// all-removed branch needs zero input rows and is covered above. Here we
	// assert the ordinary branch keeps header order.
	res := Clean(table, Options{KeyColumns: []string{"id"}})
	assert.Equal(t, []string{"id", "email"}, res.Columns)
}

func TestClean_PreviewTruncatedToTen(t *testing.T) {
	table := &Table{Columns: []string{"n"}}
	for i := 0; i < 25; i++ {
		v := string(rune('a' + i))
		table.Rows = append(table.Rows, Row{"n": &v})
	}

	res := Clean(table, Options{})

	assert.Len(t, res.Preview, 10)
	assert.Equal(t, 25, res.Summary.RowsOut)
}

func TestParseAndWriteCSV_RoundTrip(t *testing.T) {
	input := "email,phone\n A@B.com ,(555) 123-4567\na@b.com,5551234567\n"

	table, err := ParseCSV([]byte(input))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"email", "phone"}, table.Columns)

	res := Clean(table, Options{
		EmailColumns: []string{"email"},
		PhoneColumns: []string{"phone"},
		KeyColumns:   []string{"email"},
	})

	out, err := WriteCSV(res.Columns, res.Rows)
	require.NoError(t, err)
	assert.Equal(t, "email,phone\na@b.com,+15551234567\n", string(out))
}

func TestParseCSV_ShortRecordYieldsNilCells(t *testing.T) {
	table, err := ParseCSV([]byte("a,b,c\n1,2\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	require.NotNil(t, row["a"])
	assert.Equal(t, "2", *row["b"])
	_, present := row["c"]
	assert.True(t, present)
	assert.Nil(t, row["c"])
}

func TestParseCSV_Empty(t *testing.T) {
	table, err := ParseCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestWriteCSV_DropsExtraFieldsAndFillsAbsent(t *testing.T) {
	rows := []Row{
		rowOf("a", "1", "zzz", "ignored"),
		rowOf("b", "2"),
	}
	out, err := WriteCSV([]string{"a", "b"}, rows)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\n,2\n", string(out))
}
