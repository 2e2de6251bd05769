package sorter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrUnknownField is returned when the sort key names no field of the record
var ErrUnknownField = errors.New("unknown sort field")

// Direction of a sort
type Direction string

const (
	None       Direction = "none"
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc/ascending, desc/descending and none (or empty)
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("unknown sort direction %q", s)
	}
}

// Fields maps a sort key to the accessor extracting that field from a record
type Fields[T any] map[string]func(T) Value

// Keys returns the field keys in sorted order
func (f Fields[T]) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sort returns a stably sorted copy of records ordered by the field named key.
//
// Numbers compare numerically, text by the collation of locale, dates as calendar days.
// Nulls are negative infinity in both directions: first when ascending, last when
// descending. With direction None the copy keeps the input order. records is not modified.
func Sort[T any](records []T, key string, dir Direction, fields Fields[T], locale language.Tag) ([]T, error) {
	out := make([]T, len(records))
	copy(out, records)

	if dir == None || key == "" {
		return out, nil
	}
	get, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}

	// A collator keeps internal buffers, so each call gets its own
	col := collate.New(locale)

	values := make([]Value, len(out))
	for i, r := range out {
		values[i] = get(r)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		c := compare(values[idx[i]], values[idx[j]], col)
		if dir == Descending {
			c = -c
		}
		return c < 0
	})

	sorted := make([]T, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted, nil
}

func compare(a, b Value, col *collate.Collator) int {
	switch {
	case a.null && b.null:
		return 0
	case a.null:
		return -1
	case b.null:
		return 1
	}

	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}

	switch a.kind {
	case KindNumber:
		return a.num.Cmp(b.num)
	case KindDate:
		return a.date.Compare(b.date)
	default:
		return col.CompareString(a.text, b.text)
	}
}
