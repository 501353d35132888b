package books

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCSVRoundTripKeepsRowsAndColumns(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{Title: "T1", AuthorName: "A, B", FirstPublishYear: YearOf(1999), Ratings: Rating("4.5")},
		{Title: "T2"},
		{Title: "T3", FirstPublishYear: YearOf(2010)},
	}
	c := &Cleaner{logger: zap.NewNop(), table: NewTable(rows)}

	path := filepath.Join(t.TempDir(), "books_cleaned.csv")
	require.NoError(t, c.ExportCSV(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)
	require.Equal(t, ColumnNames(), records[0])

	// No index column, and values round-trip as text.
	require.Equal(t, []string{"T1", "A, B", "1999", "4.5"}, records[1])
	require.Equal(t, []string{"T2", "", "", ""}, records[2])
}

func TestWriteCSVEmptyTableWritesHeaderOnly(t *testing.T) {
	t.Parallel()

	c := &Cleaner{logger: zap.NewNop(), table: NewTable(nil)}
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, c.ExportCSV(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, ColumnNames(), records[0])
}

func TestCountByYearGroupsAndSorts(t *testing.T) {
	t.Parallel()

	table := NewTable([]Row{
		{FirstPublishYear: YearOf(2001)},
		{FirstPublishYear: YearOf(2001)},
		{FirstPublishYear: YearOf(2002)},
	})

	counts := table.CountByYear()
	require.Equal(t, []YearCount{
		{Label: "2001", Count: 2},
		{Label: "2002", Count: 1},
	}, counts)
}

func TestCountByYearPutsMissingYearsLast(t *testing.T) {
	t.Parallel()

	table := NewTable([]Row{
		{},
		{FirstPublishYear: YearOf(2020)},
		{FirstPublishYear: YearOf(1985)},
		{},
	})

	counts := table.CountByYear()
	require.Equal(t, []YearCount{
		{Label: "1985", Count: 1},
		{Label: "2020", Count: 1},
		{Label: "", Count: 2},
	}, counts)
}
