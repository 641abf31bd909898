// Package reference serves the hand-authored study tables from an embedded
// YAML asset.
package reference

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/amoghlakshman/cafe-insights/internal/core/domain"
)

//go:embed reference.yaml
var rawTables []byte

type Provider struct {
	tables domain.ReferenceTables
}

// New parses the embedded asset once. A malformed asset is a build artifact
// problem and fails startup.
func New() (*Provider, error) {
	var tables domain.ReferenceTables
	if err := yaml.Unmarshal(rawTables, &tables); err != nil {
		return nil, fmt.Errorf("parse reference tables: %w", err)
	}
	if len(tables.Models) == 0 || len(tables.Personas) == 0 {
		return nil, fmt.Errorf("reference tables are incomplete")
	}
	return &Provider{tables: tables}, nil
}

func (p *Provider) Tables() domain.ReferenceTables {
	return p.tables
}
