package content

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator is implemented by every typed record.
type Validator interface {
	Validate() error
}

// ValidateAll validates each record and reports the first failure with its
// index.
func ValidateAll[T Validator](items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// flag decodes booleans that spreadsheet-backed endpoints may send as
// true/false, "TRUE"/"FALSE" or 1/0.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*f = false
			return nil
		}
		parsed, perr := strconv.ParseBool(strings.ToLower(s))
		if perr != nil {
			return fmt.Errorf("invalid boolean %q", s)
		}
		*f = flag(parsed)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}
	if string(data) == "null" {
		*f = false
		return nil
	}
	return fmt.Errorf("invalid boolean %s", data)
}
