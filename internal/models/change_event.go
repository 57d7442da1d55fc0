package models

import "fmt"

// Kind identifies the structural change a ChangeEvent describes.
type Kind string

const (
	TableCreated  Kind = "tableCreated"
	TableDropped  Kind = "tableDropped"
	ColumnDropped Kind = "columnDropped"
	NotNullAdded  Kind = "notNullAdded"
)

// ChangeEvent represents a single structural schema change extracted from a
// changelog file. Column is set only for the column-scoped kinds
// (ColumnDropped, NotNullAdded). Events are never mutated after extraction.
type ChangeEvent struct {
	Kind   Kind   `json:"kind"`
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
	File   string `json:"file"`
}

// Subject returns the schema object the event refers to, as "table" or
// "table.column".
func (e ChangeEvent) Subject() string {
	if e.Column != "" {
		return e.Table + "." + e.Column
	}
	return e.Table
}

// Message returns the human-readable deployment risk for the event.
func (e ChangeEvent) Message() string {
	switch e.Kind {
	case NotNullAdded:
		return fmt.Sprintf("Adding a NOT NULL constraint on %s.%s can fail against existing rows unless table %s is created in the same change set.",
			e.Table, e.Column, e.Table)
	default:
		return fmt.Sprintf("Removal of %s can fail service instances still running against the old schema and complicates rollback.",
			e.Subject())
	}
}
