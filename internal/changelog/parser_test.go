package changelog

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewParser(logger)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFile(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<databaseChangeLog>
    <changeSet id="1" author="alice">
        <createTable tableName="person">
            <column name="id" type="bigint"/>
            <column name="username" type="varchar(255)"/>
        </createTable>
        <addColumn tableName="person">
            <column name="email" type="varchar(255)"/>
        </addColumn>
        <dropColumn tableName="person" columnName="legacy_flag"/>
    </changeSet>
    <changeSet id="2" author="bob">
        <addNotNullConstraint tableName="person" columnName="username"/>
    </changeSet>
</databaseChangeLog>`
	path := writeFile(t, t.TempDir(), "changelog.xml", content)

	sets, err := newTestParser().ParseFile(path)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, "1", sets[0].ID)
	assert.Equal(t, "alice", sets[0].Author)
	assert.Equal(t, path, sets[0].File)
	// Mixed kinds keep document order; nested column elements are not
	// recorded as changes.
	assert.Equal(t, []Change{
		{Kind: "createTable", Table: "person", File: path},
		{Kind: "addColumn", Table: "person", File: path},
		{Kind: "dropColumn", Table: "person", Column: "legacy_flag", File: path},
	}, sets[0].Changes)

	assert.Equal(t, "2", sets[1].ID)
	assert.Equal(t, []Change{
		{Kind: "addNotNullConstraint", Table: "person", Column: "username", File: path},
	}, sets[1].Changes)
}

func TestParseFileFollowsIncludes(t *testing.T) {
	dir := t.TempDir()
	childPath := writeFile(t, dir, "child.xml", `<databaseChangeLog>
    <changeSet id="c1" author="bob">
        <dropTable tableName="legacy"/>
    </changeSet>
</databaseChangeLog>`)
	parentPath := writeFile(t, dir, "parent.xml", `<databaseChangeLog>
    <changeSet id="p1" author="alice">
        <createTable tableName="person"/>
    </changeSet>
    <include file="child.xml"/>
</databaseChangeLog>`)

	sets, err := newTestParser().ParseFile(parentPath)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	// Changes carry the path of the file that defined them.
	assert.Equal(t, parentPath, sets[0].Changes[0].File)
	assert.Equal(t, "dropTable", sets[1].Changes[0].Kind)
	assert.Equal(t, childPath, sets[1].Changes[0].File)
}

func TestParseFileIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "self.xml", `<databaseChangeLog>
    <include file="self.xml"/>
</databaseChangeLog>`)

	_, err := newTestParser().ParseFile(filepath.Join(dir, "self.xml"))
	assert.ErrorIs(t, err, ErrIncludeTooDeep)
}

func TestParseFileMalformedXML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.xml", `<databaseChangeLog><changeSet id="1">`)

	_, err := newTestParser().ParseFile(path)
	assert.Error(t, err)
}

func TestParseFileMissing(t *testing.T) {
	_, err := newTestParser().ParseFile(filepath.Join(t.TempDir(), "absent.xml"))
	assert.Error(t, err)
}
