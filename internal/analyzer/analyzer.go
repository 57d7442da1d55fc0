package analyzer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"changelog-lint/internal/changelog"
	"changelog-lint/internal/models"
)

// Locator recovers the 1-based source line of an event in its origin file.
type Locator interface {
	Locate(event models.ChangeEvent) (int, error)
}

// Analyzer runs the parse, extract, classify and locate pipeline over a set
// of changelog files.
type Analyzer struct {
	parser  *changelog.Parser
	locator Locator
	policy  *Policy // nil when no policy script is configured
	logger  *logrus.Logger
}

// New creates an analyzer. policy may be nil.
func New(parser *changelog.Parser, locator Locator, policy *Policy, logger *logrus.Logger) *Analyzer {
	return &Analyzer{
		parser:  parser,
		locator: locator,
		policy:  policy,
		logger:  logger,
	}
}

// Run parses every file, materializes the full event set, then classifies
// and locates each event. The full set must exist before any verdict: the
// NOT NULL rule inspects events from every file, so classification cannot
// be interleaved with parsing.
func (a *Analyzer) Run(files []string) ([]models.Report, error) {
	var changes []changelog.Change
	for _, file := range files {
		sets, err := a.parser.ParseFile(file)
		if err != nil {
			return nil, err
		}
		for _, set := range sets {
			changes = append(changes, set.Changes...)
		}
	}

	events := Extract(changes)
	a.logger.Infof("Extracted %d structural change events from %d files", len(events), len(files))

	reports := make([]models.Report, 0, len(events))
	for _, event := range events {
		line, err := a.locator.Locate(event)
		if err != nil {
			return nil, fmt.Errorf("failed to locate %s in %s: %w", event.Subject(), event.File, err)
		}

		report := models.Report{
			Event:    event,
			Line:     line,
			Breaking: IsBreaking(event, events),
			Message:  event.Message(),
		}
		if a.policy != nil {
			verdict, err := a.policy.Review(report)
			if err != nil {
				return nil, err
			}
			report.Breaking = verdict
		}
		reports = append(reports, report)
	}
	return reports, nil
}
