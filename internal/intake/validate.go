package intake

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects validation failures in field-definition order.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(msgs, "; ")
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks raw form values against the track's field definitions and
// returns the trimmed, normalized values or the list of field errors.
// Checkbox values normalize to "true"/"false". Performs no I/O.
func Validate(t Track, raw map[string]string) (map[string]string, FieldErrors) {
	values := make(map[string]string, len(t.Fields))
	var errs FieldErrors

	for _, f := range t.Fields {
		v := strings.TrimSpace(raw[f.Name])

		if f.Kind == KindCheckbox {
			checked := v == "true" || v == "on" || v == "1"
			if f.Required && !checked {
				errs = append(errs, FieldError{f.Name, "please confirm: " + f.Label})
			}
			values[f.Name] = fmt.Sprintf("%t", checked)
			continue
		}

		if v == "" {
			if f.Required {
				errs = append(errs, FieldError{f.Name, f.Label + " is required"})
			}
			values[f.Name] = ""
			continue
		}

		switch f.Kind {
		case KindEmail:
			if !emailPattern.MatchString(v) {
				errs = append(errs, FieldError{f.Name, "invalid email address"})
			}
		case KindSelect:
			if !contains(f.Options, v) {
				errs = append(errs, FieldError{f.Name, "must be one of: " + strings.Join(f.Options, ", ")})
			}
		case KindLongText:
			if f.WordLimit > 0 {
				if n := WordCount(v); n > f.WordLimit {
					errs = append(errs, FieldError{f.Name, fmt.Sprintf("%d words exceeds the %d-word limit", n, f.WordLimit)})
				}
			}
		}
		values[f.Name] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return values, nil
}

// WordCount counts whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
