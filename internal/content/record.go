package content

import "fmt"

// Record is an uninterpreted JSON object from the data endpoint.
type Record map[string]any

// String returns the field as a string, or "" when absent.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// FirstOrZero returns records[0], or an empty record for an empty collection.
func FirstOrZero(records []Record) Record {
	if len(records) == 0 {
		return Record{}
	}
	return records[0]
}
