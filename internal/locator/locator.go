// Package locator recovers source lines for change events by matching the
// event's opening tag in the raw changelog text and mapping the match offset
// back to a line number.
package locator

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"changelog-lint/internal/models"
)

// patterns match the opening tag per event kind and capture its attribute
// text.
var patterns = map[models.Kind]*regexp.Regexp{
	models.TableCreated:  regexp.MustCompile(`<createTable([^>]*)>`),
	models.TableDropped:  regexp.MustCompile(`<dropTable([^>]*)>`),
	models.ColumnDropped: regexp.MustCompile(`<dropColumn([^>]*)>`),
	models.NotNullAdded:  regexp.MustCompile(`<addNotNullConstraint([^>]*)>`),
}

// fileText is a changelog file prepared for offset lookups: the lines joined
// with no separator, plus each line's start offset within the joined string.
// Joining without a separator is what keeps match offsets aligned with the
// cumulative line table.
type fileText struct {
	joined string
	starts []int
	lens   []int
}

// Locator maps change events back to 1-based source lines. A miss is not an
// error: events whose tag cannot be confirmed in the text report line 1.
type Locator struct {
	logger *logrus.Logger
	files  map[string]*fileText // per-invocation read cache
}

// New creates a locator.
func New(logger *logrus.Logger) *Locator {
	return &Locator{
		logger: logger,
		files:  make(map[string]*fileText),
	}
}

// Locate returns the 1-based line of the first tag matching the event's kind
// whose attributes name the event's table (and column, for column-scoped
// kinds). It returns 1 on a miss. A file read failure is returned as an
// error.
func (l *Locator) Locate(event models.ChangeEvent) (int, error) {
	ft, err := l.load(event.File)
	if err != nil {
		return 0, err
	}

	re, ok := patterns[event.Kind]
	if !ok {
		return 1, nil
	}

	for _, m := range re.FindAllStringSubmatchIndex(ft.joined, -1) {
		attrs := ft.joined[m[2]:m[3]]
		if !strings.Contains(attrs, `tableName="`+event.Table+`"`) {
			continue
		}
		if event.Column != "" && !strings.Contains(attrs, `columnName="`+event.Column+`"`) {
			continue
		}
		return ft.lineAt(m[0]), nil
	}

	l.logger.Debugf("No matching tag for %s %s in %s, falling back to line 1",
		event.Kind, event.Subject(), event.File)
	return 1, nil
}

func (l *Locator) load(path string) (*fileText, error) {
	if ft, ok := l.files[path]; ok {
		return ft, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	ft := &fileText{
		starts: make([]int, len(lines)),
		lens:   make([]int, len(lines)),
	}
	var b strings.Builder
	offset := 0
	for i, line := range lines {
		ft.starts[i] = offset
		ft.lens[i] = len(line)
		offset += len(line)
		b.WriteString(line)
	}
	ft.joined = b.String()

	l.files[path] = ft
	return ft, nil
}

// lineAt returns the 1-based index of the line whose range contains offset.
func (ft *fileText) lineAt(offset int) int {
	for i := range ft.starts {
		if offset >= ft.starts[i] && offset < ft.starts[i]+ft.lens[i] {
			return i + 1
		}
	}
	return 1
}
