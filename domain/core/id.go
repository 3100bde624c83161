package core

import (
	"fmt"
	"path/filepath"
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

// Short returns the first eight characters of the identifier
func (id ID) Short() string {
	s := strings.ReplaceAll(string(id), "-", "")
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// UploadName prefixes an uploaded file's base name with a random short id so uploads never collide
func UploadName(original string) string {
	return fmt.Sprintf("%s_%s", ID(uuid.New().String()).Short(), filepath.Base(original))
}

// DerivedName returns the name of a file derived from source: <base>_eda<ext>
func DerivedName(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + "_eda" + ext
}
