package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// TableID identifies one loaded feature or metadata table. A reloaded file gets a new ID.
type TableID ID

func (id TableID) String() string { return ID(id).String() }

// IsEmpty reports whether the table ID is unset
func (id TableID) IsEmpty() bool { return ID(id).IsEmpty() }

// NewTableID returns a fresh table identity.
func NewTableID() TableID { return TableID(NewID()) }

// ParseRunKey validates a hex run key taken from a URL.
func ParseRunKey(s string) (RunKey, error) {
	s = strings.TrimSpace(s)
	if len(s) != 64 {
		return "", NewValidationError("run key", fmt.Sprintf("must be 64 hex characters, got %d", len(s)))
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", NewValidationError("run key", "not lowercase hex")
		}
	}
	return RunKey(s), nil
}
