// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
)

// ActivityName validates an activity name is non-empty after trimming
// whitespace.
func ActivityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// ActivityID validates an activity identifier is a non-empty opaque
// string with no surrounding whitespace.
func ActivityID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(id) != id {
		return fmt.Errorf("id must not contain surrounding whitespace")
	}
	return nil
}
