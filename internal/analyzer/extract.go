package analyzer

import (
	"changelog-lint/internal/changelog"
	"changelog-lint/internal/models"
)

// Extract maps raw change records to change events, preserving input order.
// Kinds with no deployment-safety relevance are dropped.
func Extract(changes []changelog.Change) []models.ChangeEvent {
	events := make([]models.ChangeEvent, 0, len(changes))
	for _, c := range changes {
		switch c.Kind {
		case "createTable":
			events = append(events, models.ChangeEvent{Kind: models.TableCreated, Table: c.Table, File: c.File})
		case "dropTable":
			events = append(events, models.ChangeEvent{Kind: models.TableDropped, Table: c.Table, File: c.File})
		case "dropColumn":
			events = append(events, models.ChangeEvent{Kind: models.ColumnDropped, Table: c.Table, Column: c.Column, File: c.File})
		case "addNotNullConstraint":
			events = append(events, models.ChangeEvent{Kind: models.NotNullAdded, Table: c.Table, Column: c.Column, File: c.File})
		}
	}
	return events
}
