package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"changelog-lint/internal/changelog"
	"changelog-lint/internal/models"
)

func TestExtract(t *testing.T) {
	changes := []changelog.Change{
		{Kind: "createTable", Table: "person", File: "db.xml"},
		{Kind: "addColumn", Table: "person", File: "db.xml"},
		{Kind: "sql", File: "db.xml"},
		{Kind: "dropColumn", Table: "existing", Column: "delete_column", File: "db.xml"},
		{Kind: "renameTable", Table: "existing", File: "db.xml"},
		{Kind: "addNotNullConstraint", Table: "person", Column: "username", File: "db.xml"},
		{Kind: "dropTable", Table: "legacy", File: "other.xml"},
	}

	events := Extract(changes)

	assert.Equal(t, []models.ChangeEvent{
		{Kind: models.TableCreated, Table: "person", File: "db.xml"},
		{Kind: models.ColumnDropped, Table: "existing", Column: "delete_column", File: "db.xml"},
		{Kind: models.NotNullAdded, Table: "person", Column: "username", File: "db.xml"},
		{Kind: models.TableDropped, Table: "legacy", File: "other.xml"},
	}, events)
}

func TestExtractEmptyInput(t *testing.T) {
	assert.Empty(t, Extract(nil))
}
