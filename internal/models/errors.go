package models

import (
	"encoding/json"
	"fmt"
)

// ValidationError rejects malformed input before any external call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NewValidationError creates a validation error with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// PowerRef accepts either a bare power name ("Flame Burst") or a full
// {name, description} object, matching what clients actually send.
type PowerRef struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON implements the string-or-object decoding.
func (p *PowerRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		p.Name = name
		p.Description = ""
		return nil
	}

	type powerRef PowerRef
	var obj powerRef
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*p = PowerRef(obj)
	return nil
}
