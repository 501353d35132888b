package books

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanFlattensSingleRecord(t *testing.T) {
	t.Parallel()

	raw := mustDecodeRecords(t, `[{"title":"T1","author_name":["X"],"first_publish_year":2001,"ratings_sortable":5}]`)

	table := NewCleaner(zap.NewNop()).Clean(raw)
	require.Equal(t, 1, table.Len())

	row := table.Rows()[0]
	require.Equal(t, "T1", row.Title)
	require.Equal(t, "X", row.AuthorName)
	require.Equal(t, YearOf(2001), row.FirstPublishYear)
	require.Equal(t, Rating("5"), row.Ratings)
}

func TestCleanDefaultsMissingFieldsToEmptyString(t *testing.T) {
	t.Parallel()

	raw := mustDecodeRecords(t, `[{}]`)

	table := NewCleaner(zap.NewNop()).Clean(raw)
	require.Equal(t, 1, table.Len())

	row := table.Rows()[0]
	require.Equal(t, "", row.Title)
	require.Equal(t, "", row.AuthorName)
	require.Equal(t, "", row.FirstPublishYear.String())
	require.Equal(t, "", row.Ratings.String())
}

func TestCleanJoinsAuthorNames(t *testing.T) {
	t.Parallel()

	raw := mustDecodeRecords(t, `[{"author_name":["A","B"]},{"author_name":[]}]`)

	table := NewCleaner(zap.NewNop()).Clean(raw)
	require.Equal(t, "A, B", table.Rows()[0].AuthorName)
	require.Equal(t, "", table.Rows()[1].AuthorName)
}

func TestCleanPreservesOrdinalPositions(t *testing.T) {
	t.Parallel()

	raw := mustDecodeRecords(t, `[{"title":"first"},{"title":"second"},{"title":"third"}]`)

	table := NewCleaner(zap.NewNop()).Clean(raw)
	require.Equal(t, 3, table.Len())
	require.Equal(t, "first", table.Rows()[0].Title)
	require.Equal(t, "second", table.Rows()[1].Title)
	require.Equal(t, "third", table.Rows()[2].Title)
}

func TestExportBeforeCleanFails(t *testing.T) {
	t.Parallel()

	c := NewCleaner(zap.NewNop())
	err := c.ExportCSV(filepath.Join(t.TempDir(), "out.csv"))
	require.True(t, errors.Is(err, ErrNotCleaned))

	err = c.ExportJSON(filepath.Join(t.TempDir(), "out.json"))
	require.True(t, errors.Is(err, ErrNotCleaned))
}

func TestExportJSONWritesArrayOfObjects(t *testing.T) {
	t.Parallel()

	c := NewCleaner(zap.NewNop())
	c.Clean(mustDecodeRecords(t, `[{"title":"T1","author_name":["X"],"first_publish_year":2001},{"title":"T2","ratings_sortable":4.75}]`))

	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, c.ExportJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 2)

	// Set values keep their numeric form, absent values stay "".
	require.Equal(t, float64(2001), out[0]["first_publish_year"])
	require.Equal(t, "", out[0]["ratings"])
	require.Equal(t, "", out[1]["first_publish_year"])
	require.Equal(t, 4.75, out[1]["ratings"])
}

func mustDecodeRecords(t *testing.T, payload string) []RawRecord {
	t.Helper()
	var raw []RawRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}
