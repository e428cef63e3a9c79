// Package contract turns raw provider text into typed values.
//
// Every prompt in the pipeline asks the provider to "return ONLY" a JSON object
// or array, optionally fenced in ```json / ``` markers. This package is the one
// place where that convention is enforced; it never repairs malformed output.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedContract matches every decoding or validation failure.
var ErrMalformedContract = errors.New("malformed contract")

// MalformedError keeps the raw provider text so callers can degrade to it.
type MalformedError struct {
	Raw string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedContract, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformedContract }

// Validator is run by Decode after a successful unmarshal.
type Validator interface {
	Validate() error
}

// Strip removes surrounding whitespace and one leading/trailing code fence.
func Strip(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(s[:len(s)-3])
	}
	return s
}

// Parse decodes text into a generic JSON value (map[string]any, []any, ...).
func Parse(text string) (any, error) {
	var v any
	if err := unmarshal(text, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode unmarshals text into v and validates it when v implements Validator.
func Decode(text string, v any) error {
	if err := unmarshal(text, v); err != nil {
		return err
	}
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return &MalformedError{Raw: text, Err: err}
		}
	}
	return nil
}

func unmarshal(text string, v any) error {
	body := Strip(text)
	if body == "" {
		return &MalformedError{Raw: text, Err: errors.New("empty response")}
	}
	if body[0] != '{' && body[0] != '[' {
		return &MalformedError{Raw: text, Err: errors.New("response is not a JSON object or array")}
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &MalformedError{Raw: text, Err: err}
	}
	return nil
}

// RawText returns the provider text carried by a contract error, if any.
func RawText(err error) (string, bool) {
	var me *MalformedError
	if errors.As(err, &me) {
		return me.Raw, true
	}
	return "", false
}
