package orchestrator

import (
	"context"

	"github.com/Nadirh/retirement-planning/pkg/data"
	"github.com/Nadirh/retirement-planning/pkg/types"
)

// Orchestrator coordinates dataset loading, validation and simulation runs
type Orchestrator interface {
	// Plan validates a request and resolves its defaults
	Plan(req Request) (Plan, error)

	// RunSweep executes an allocation sweep
	RunSweep(ctx context.Context, plan Plan) (*types.SweepReport, error)

	// RunSingle executes a single-allocation simulation
	RunSingle(ctx context.Context, plan Plan) (*types.SimulationResult, error)

	// Execute plans and runs a request and returns its wire response
	Execute(ctx context.Context, req Request) (interface{}, error)
}

// SeriesProvider hands out the historical series runs sample from
type SeriesProvider interface {
	Series() (*data.Series, error)
}

// Workflow represents one executable run
type Workflow interface {
	// Execute runs the workflow and returns its wire response
	Execute(ctx context.Context) (interface{}, error)

	// GetWorkflowType returns the type of workflow
	GetWorkflowType() WorkflowType
}

// WorkflowType represents different types of workflows
type WorkflowType string

const (
	WorkflowTypeSweep  WorkflowType = "allocationSweep"
	WorkflowTypeSingle WorkflowType = "single"
)
