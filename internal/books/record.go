// Package books holds the book data model and the cleaning step that turns
// raw Open Library search docs into a fixed four-column table.
package books

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawRecord is one search doc as returned by the Open Library API. Every
// field is optional; absent fields become the empty string when cleaned.
type RawRecord struct {
	Title            *string      `json:"title"`
	AuthorName       []string     `json:"author_name"`
	FirstPublishYear *int         `json:"first_publish_year"`
	RatingsSortable  *json.Number `json:"ratings_sortable"`
}

// Flatten projects the record onto the fixed four-field row. Author names
// are joined with ", "; everything missing renders as the empty string.
func (r RawRecord) Flatten() Row {
	row := Row{AuthorName: strings.Join(r.AuthorName, ", ")}
	if r.Title != nil {
		row.Title = *r.Title
	}
	if r.FirstPublishYear != nil {
		row.FirstPublishYear = YearOf(*r.FirstPublishYear)
	}
	if r.RatingsSortable != nil {
		row.Ratings = Rating(r.RatingsSortable.String())
	}
	return row
}

// Row is the fixed four-field projection of a RawRecord.
type Row struct {
	Title            string `csv:"title" json:"title"`
	AuthorName       string `csv:"author_name" json:"author_name"`
	FirstPublishYear Year   `csv:"first_publish_year" json:"first_publish_year"`
	Ratings          Rating `csv:"ratings" json:"ratings"`
}

// Year is an optional publish year. The zero value means "absent" and
// renders as the empty string everywhere the row is persisted.
type Year struct {
	Value int
	Set   bool
}

// YearOf wraps a known publish year.
func YearOf(v int) Year {
	return Year{Value: v, Set: true}
}

func (y Year) String() string {
	if !y.Set {
		return ""
	}
	return strconv.Itoa(y.Value)
}

// MarshalJSON renders a set year as a bare integer and an absent one as "".
func (y Year) MarshalJSON() ([]byte, error) {
	if !y.Set {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(y.Value)), nil
}

// UnmarshalJSON accepts both the integer and the empty-string encodings.
func (y *Year) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*y = Year{}
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*y = YearOf(v)
	return nil
}

// MarshalText is used by the CSV encoder.
func (y Year) MarshalText() ([]byte, error) {
	return []byte(y.String()), nil
}

// UnmarshalText is the CSV counterpart of UnmarshalJSON.
func (y *Year) UnmarshalText(data []byte) error {
	s := string(data)
	if s == "" {
		*y = Year{}
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*y = YearOf(v)
	return nil
}

// Rating is the opaque ratings_sortable value, kept as the raw number text
// the API returned. An absent rating stays the empty string, never zero and
// never null.
type Rating string

func (r Rating) String() string {
	return string(r)
}

// MarshalJSON emits numeric ratings as bare numbers and everything else,
// including the absent empty string, as a JSON string. The json.Valid check
// keeps tokens ParseFloat tolerates but JSON forbids (NaN, Inf, hex floats)
// out of the raw output.
func (r Rating) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte(`""`), nil
	}
	if _, err := strconv.ParseFloat(string(r), 64); err == nil && json.Valid([]byte(r)) {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON keeps whatever textual form the value had.
func (r *Rating) UnmarshalJSON(data []byte) error {
	*r = Rating(strings.Trim(string(data), `"`))
	return nil
}

// Numeric reports the rating as a float and whether it parsed as one.
func (r Rating) Numeric() (float64, bool) {
	if r == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(r), 64)
	return f, err == nil
}
