// Package rows holds the tabular data model shared by the decoder, the exporter and the
// results proxy, and the exact-match duplicate row detector.
package rows

import (
	"fmt"
	"math"
	"strconv"
)

// Cell is a single spreadsheet value: nil, string, bool or a Go number.
type Cell = any

// Row is an ordered sequence of cells.
type Row []Cell

type cellKind uint8

const (
	kindEmpty cellKind = iota
	kindString
	kindNumber
	kindBool
	kindOther
)

// canonical is the comparable form of a cell. Kinds never compare equal to each
// other, so 1 and "1" differ and nil differs from "".
type canonical struct {
	kind cellKind
	text string
}

func canonicalize(c Cell) canonical {
	switch v := c.(type) {
	case nil:
		return canonical{kind: kindEmpty}
	case string:
		return canonical{kind: kindString, text: v}
	case bool:
		return canonical{kind: kindBool, text: strconv.FormatBool(v)}
	case int:
		return canonical{kind: kindNumber, text: strconv.FormatInt(int64(v), 10)}
	case int8:
		return canonical{kind: kindNumber, text: strconv.FormatInt(int64(v), 10)}
	case int16:
		return canonical{kind: kindNumber, text: strconv.FormatInt(int64(v), 10)}
	case int32:
		return canonical{kind: kindNumber, text: strconv.FormatInt(int64(v), 10)}
	case int64:
		return canonical{kind: kindNumber, text: strconv.FormatInt(v, 10)}
	case uint:
		return canonical{kind: kindNumber, text: strconv.FormatUint(uint64(v), 10)}
	case uint8:
		return canonical{kind: kindNumber, text: strconv.FormatUint(uint64(v), 10)}
	case uint16:
		return canonical{kind: kindNumber, text: strconv.FormatUint(uint64(v), 10)}
	case uint32:
		return canonical{kind: kindNumber, text: strconv.FormatUint(uint64(v), 10)}
	case uint64:
		return canonical{kind: kindNumber, text: strconv.FormatUint(v, 10)}
	case float32:
		return canonical{kind: kindNumber, text: formatFloat(float64(v))}
	case float64:
		return canonical{kind: kindNumber, text: formatFloat(v)}
	default:
		return canonical{kind: kindOther, text: fmt.Sprintf("%T:%v", v, v)}
	}
}

// formatFloat renders integral values the same way the integer cases do, so
// int(1) and float64(1) share a key. -0 collapses to 0 and every NaN to "NaN".
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 0):
		return strconv.FormatFloat(f, 'g', -1, 64)
	case f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64:
		return strconv.FormatInt(int64(f), 10)
	case f == math.Trunc(f) && f >= 0 && f < math.MaxUint64:
		return strconv.FormatUint(uint64(f), 10)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func canonicalizeRow(r Row) []canonical {
	out := make([]canonical, len(r))
	for i, c := range r {
		out[i] = canonicalize(c)
	}
	return out
}

func equalCanonical(a, b []canonical) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal reports whether two rows have the same length and equal cells at every position.
func Equal(a, b Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if canonicalize(a[i]) != canonicalize(b[i]) {
			return false
		}
	}
	return true
}

// String renders a cell the way it is shown in previews and exports.
func String(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
