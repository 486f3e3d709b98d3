package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// YearSet stores the model years a part fits, serialized as a JSON array.
type YearSet []int

// Value implements driver.Valuer so the set can be written to a JSON column.
func (y YearSet) Value() (driver.Value, error) {
	if y == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]int(y))
	if err != nil {
		return nil, fmt.Errorf("marshal year set: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for JSON columns holding year arrays.
func (y *YearSet) Scan(value interface{}) error {
	if value == nil {
		*y = YearSet{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("year set: unsupported column type %T", value)
	}

	if len(raw) == 0 {
		*y = YearSet{}
		return nil
	}

	var years []int
	if err := json.Unmarshal(raw, &years); err != nil {
		return fmt.Errorf("unmarshal year set: %w", err)
	}
	*y = years
	return nil
}

// Contains reports whether the set includes the given year.
func (y YearSet) Contains(year int) bool {
	for _, candidate := range y {
		if candidate == year {
			return true
		}
	}
	return false
}

// SortedDesc returns a copy sorted newest-first.
func (y YearSet) SortedDesc() []int {
	out := make([]int, len(y))
	copy(out, y)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
