package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/libdata/bookpipeline/internal/books"
)

// columnKind classifies the runtime type of a column's values.
type columnKind int

const (
	kindText columnKind = iota
	kindBigint
	kindDouble
)

func (k columnKind) sqlType() string {
	switch k {
	case kindBigint:
		return "BIGINT"
	case kindDouble:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// inferKinds picks a SQL type per column from the values actually present:
// an all-set year column maps to BIGINT, an all-numeric ratings column to
// DOUBLE PRECISION, and any column containing an empty value stays TEXT so
// the empty-string defaulting survives the round trip. Title and authors
// are always TEXT.
func inferKinds(rows []books.Row) [4]columnKind {
	kinds := [4]columnKind{kindText, kindText, kindBigint, kindDouble}
	if len(rows) == 0 {
		kinds[2], kinds[3] = kindText, kindText
		return kinds
	}
	for _, row := range rows {
		if !row.FirstPublishYear.Set {
			kinds[2] = kindText
		}
		if kinds[3] != kindText {
			if _, ok := row.Ratings.Numeric(); !ok {
				kinds[3] = kindText
			}
		}
	}
	return kinds
}

func createStatement(table string, kinds [4]columnKind) string {
	cols := books.ColumnNames()
	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = fmt.Sprintf("%s %s", pgx.Identifier{col}.Sanitize(), kinds[i].sqlType())
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{table}.Sanitize(), strings.Join(defs, ", "))
}

// copyValues renders one row for COPY, matching the inferred column types.
func copyValues(row books.Row, kinds [4]columnKind) []any {
	vals := make([]any, 0, 4)
	vals = append(vals, row.Title, row.AuthorName)
	if kinds[2] == kindBigint {
		vals = append(vals, int64(row.FirstPublishYear.Value))
	} else {
		vals = append(vals, row.FirstPublishYear.String())
	}
	if kinds[3] == kindDouble {
		f, _ := row.Ratings.Numeric()
		vals = append(vals, f)
	} else {
		vals = append(vals, row.Ratings.String())
	}
	return vals
}
