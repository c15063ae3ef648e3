package services

import (
	"fmt"

	"airbnb-cleaner/models"
)

// batch is the working state handed from stage to stage.
type batch struct {
	table    *models.Table
	columns  []string
	listings []*models.Listing
	warnings []models.ParseWarning
}

func (b *batch) warn(row int, column, value, reason string) {
	b.warnings = append(b.warnings, models.ParseWarning{
		Row: row, Column: column, Value: value, Reason: reason,
	})
}

// Stage is one named transform of the cleaning pipeline.
type Stage interface {
	Name() string
	Apply(b *batch) error
}

type stageFunc struct {
	name string
	fn   func(b *batch) error
}

func (s stageFunc) Name() string         { return s.name }
func (s stageFunc) Apply(b *batch) error { return s.fn(b) }

// Pipeline runs stages strictly in the order they were added.
type Pipeline struct {
	stages []Stage
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Names lists the stages in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

func (p *Pipeline) Run(b *batch) error {
	for _, s := range p.stages {
		if err := s.Apply(b); err != nil {
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}
	}
	return nil
}
