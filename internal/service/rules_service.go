package service

import (
	"context"

	"fhemview/internal/rules"
)

// RulesService runs the rule engine against the catalog's current model.
type RulesService struct {
	engine  *rules.Engine
	catalog *CatalogService
}

func NewRulesService(engine *rules.Engine, catalog *CatalogService) *RulesService {
	return &RulesService{engine: engine, catalog: catalog}
}

// Check evaluates every registered rule against the current snapshot.
// A failing rule is reported in the result, not as an error.
func (s *RulesService) Check(_ context.Context) (rules.Report, error) {
	m, err := s.catalog.Model()
	if err != nil {
		return rules.Report{}, err
	}
	return s.engine.Evaluate(m)
}
