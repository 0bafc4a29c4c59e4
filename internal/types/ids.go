package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// RunID is a custom type that wraps a UUID string identifying a single
// agent run. It provides type-safe UUID generation, validation, and
// serialization.
type RunID string

// NewRunID generates a new UUID v4 and returns it as a RunID.
// It will never return an error as uuid.New() uses crypto/rand
// which panics on system-level failures (extremely rare).
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// ParseRunID parses and validates a string as a UUID, returning a RunID.
// It returns an error if the string is not a valid UUID format.
func ParseRunID(s string) (RunID, error) {
	if s == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}

	parsedUUID, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid UUID format: %w", err)
	}

	return RunID(parsedUUID.String()), nil
}

// Validate checks if the RunID is a valid UUID.
// Returns an error if the ID is invalid or empty.
func (id RunID) Validate() error {
	if id == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid UUID format: %w", err)
	}

	return nil
}

// String returns the string representation of the RunID.
func (id RunID) String() string {
	return string(id)
}

// IsZero checks if the RunID is empty or zero-valued.
func (id RunID) IsZero() bool {
	return id == ""
}

// MarshalJSON implements the json.Marshaler interface.
func (id RunID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// It deserializes a JSON string into a RunID and validates it.
func (id *RunID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal run ID: %w", err)
	}

	if s == "" {
		*id = ""
		return nil
	}

	parsed, err := ParseRunID(s)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}
