package books

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"

	"github.com/jszwec/csvutil"
)

// ColumnNames returns the fixed column set of every Table, in order.
func ColumnNames() []string {
	return []string{"title", "author_name", "first_publish_year", "ratings"}
}

// Table is the ordered, fixed-schema collection of cleaned rows shared by
// the exporters, the database sink, and the visualizer. Consumers read it
// without mutating it.
type Table struct {
	rows []Row
}

// NewTable wraps rows into a Table, preserving their order.
func NewTable(rows []Row) *Table {
	return &Table{rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows exposes the underlying rows. Callers must not modify them.
func (t *Table) Rows() []Row {
	return t.rows
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return ColumnNames()
}

// WriteCSV writes the table as CSV with a header row and no index column.
// An empty table still gets its header.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(Row{}); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as an array of per-row objects. Numbers stay
// numbers; absent values stay empty strings.
func (t *Table) WriteJSON(w io.Writer) error {
	rows := t.rows
	if rows == nil {
		rows = []Row{}
	}
	return json.NewEncoder(w).Encode(rows)
}

// YearCount is the number of rows sharing one distinct first_publish_year
// value. Label is the rendered year, "" for rows with no year.
type YearCount struct {
	Label string
	Count int
}

// CountByYear groups rows by first_publish_year and counts occurrences per
// distinct value, years ascending with the empty bucket last.
func (t *Table) CountByYear() []YearCount {
	byYear := make(map[Year]int)
	for _, row := range t.rows {
		byYear[row.FirstPublishYear]++
	}
	years := make([]Year, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool {
		if years[i].Set != years[j].Set {
			return years[i].Set
		}
		return years[i].Value < years[j].Value
	})
	out := make([]YearCount, 0, len(years))
	for _, y := range years {
		out = append(out, YearCount{Label: y.String(), Count: byYear[y]})
	}
	return out
}
