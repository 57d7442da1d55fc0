package changelog

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// maxIncludeDepth bounds <include> recursion to catch include cycles.
const maxIncludeDepth = 10

// ErrIncludeTooDeep is returned when nested <include> elements exceed
// maxIncludeDepth, which almost always means the changelog includes itself.
var ErrIncludeTooDeep = errors.New("changelog include nesting too deep")

// ChangeSet is a named, authored group of structural changes applied as a
// unit.
type ChangeSet struct {
	ID      string
	Author  string
	File    string
	Changes []Change
}

// Change is a raw structural change record. Kind is the XML element name
// (createTable, dropTable, addColumn, ...); every element directly under a
// change-set is recorded, and downstream extraction decides which kinds
// matter.
type Change struct {
	Kind   string
	Table  string
	Column string
	File   string
}

// Parser reads Liquibase-style XML changelog files into change-sets.
type Parser struct {
	logger *logrus.Logger
}

// NewParser creates a new changelog parser.
func NewParser(logger *logrus.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile parses the changelog at path, following <include> references
// relative to the including file. Change-sets keep document order, and so do
// the changes inside each of them.
func (p *Parser) ParseFile(path string) ([]ChangeSet, error) {
	return p.parseFile(path, 0)
}

func (p *Parser) parseFile(path string, depth int) ([]ChangeSet, error) {
	if depth > maxIncludeDepth {
		return nil, fmt.Errorf("%w: %s", ErrIncludeTooDeep, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read changelog: %w", err)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var sets []ChangeSet

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse changelog %s: %w", path, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "databaseChangeLog":
			// Root element, descend into it.

		case "changeSet":
			set, err := p.parseChangeSet(dec, start, path)
			if err != nil {
				return nil, fmt.Errorf("failed to parse changelog %s: %w", path, err)
			}
			sets = append(sets, set)

		case "include":
			included := attr(start, "file")
			if included == "" {
				return nil, fmt.Errorf("changelog %s: include element without file attribute", path)
			}
			target := included
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(path), included)
			}
			p.logger.Debugf("Following include %s from %s", included, path)
			nested, err := p.parseFile(target, depth+1)
			if err != nil {
				return nil, err
			}
			sets = append(sets, nested...)
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("failed to parse changelog %s: %w", path, err)
			}

		default:
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("failed to parse changelog %s: %w", path, err)
			}
		}
	}

	p.logger.Debugf("Parsed %d change sets from %s", len(sets), path)
	return sets, nil
}

// parseChangeSet consumes tokens up to the closing changeSet tag, recording
// each direct child element as a Change.
func (p *Parser) parseChangeSet(dec *xml.Decoder, start xml.StartElement, path string) (ChangeSet, error) {
	set := ChangeSet{
		ID:     attr(start, "id"),
		Author: attr(start, "author"),
		File:   path,
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return set, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			set.Changes = append(set.Changes, Change{
				Kind:   t.Name.Local,
				Table:  attr(t, "tableName"),
				Column: attr(t, "columnName"),
				File:   path,
			})
			// Nested elements (column definitions etc.) belong to the
			// change itself, not the change-set.
			if err := dec.Skip(); err != nil {
				return set, err
			}
		case xml.EndElement:
			return set, nil
		}
	}
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
