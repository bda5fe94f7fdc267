package models

import (
	"database/sql"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// AsOfLayout is the timestamp format written to snapshot files
const AsOfLayout = time.RFC3339

// NullFloat is a nullable float that renders as an empty CSV cell when unset
type NullFloat struct {
	sql.NullFloat64
}

// NullInt is a nullable integer that renders as an empty CSV cell when unset
type NullInt struct {
	sql.NullInt64
}

// NullTime is a nullable timestamp that renders as an empty CSV cell when unset
type NullTime struct {
	sql.NullTime
}

// Float returns a valid NullFloat
func Float(v float64) NullFloat {
	return NullFloat{sql.NullFloat64{Float64: v, Valid: true}}
}

// Int returns a valid NullInt
func Int(v int64) NullInt {
	return NullInt{sql.NullInt64{Int64: v, Valid: true}}
}

// Time returns a valid NullTime in UTC
func Time(t time.Time) NullTime {
	return NullTime{sql.NullTime{Time: t.UTC(), Valid: true}}
}

// MarshalCSV implements gocsv.TypeMarshaller
func (n NullFloat) MarshalCSV() (string, error) {
	if !n.Valid {
		return "", nil
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (n *NullFloat) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = NullFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = NullFloat{}
		return nil
	}
	*n = Float(v)
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller
func (n NullInt) MarshalCSV() (string, error) {
	if !n.Valid {
		return "", nil
	}
	return strconv.FormatInt(n.Int64, 10), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (n *NullInt) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = NullInt{}
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*n = NullInt{}
		return nil
	}
	*n = Int(v)
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller
func (n NullTime) MarshalCSV() (string, error) {
	if !n.Valid {
		return "", nil
	}
	return n.Time.UTC().Format(AsOfLayout), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (n *NullTime) UnmarshalCSV(s string) error {
	t, err := time.Parse(AsOfLayout, strings.TrimSpace(s))
	if err != nil {
		*n = NullTime{}
		return nil
	}
	*n = Time(t)
	return nil
}

// Before reports whether n sorts before other. A null time sorts before
// every valid time; two nulls are equal.
func (n NullTime) Before(other NullTime) bool {
	if !n.Valid {
		return other.Valid
	}
	if !other.Valid {
		return false
	}
	return n.Time.Before(other.Time)
}

// Columns returns the csv column names of a snapshot row type in field order
func Columns(row any) []string {
	t := reflect.TypeOf(row)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("csv")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, strings.Split(tag, ",")[0])
	}
	return cols
}

// Any returns the float value or nil when null
func (n NullFloat) Any() any {
	if !n.Valid {
		return nil
	}
	return n.Float64
}

// Any returns the integer value or nil when null
func (n NullInt) Any() any {
	if !n.Valid {
		return nil
	}
	return n.Int64
}

// Any returns the time value or nil when null
func (n NullTime) Any() any {
	if !n.Valid {
		return nil
	}
	return n.Time
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
