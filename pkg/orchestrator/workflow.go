package orchestrator

import "context"

// NewWorkflow returns the workflow matching plan
func NewWorkflow(orchestrator Orchestrator, plan Plan) Workflow {
	if plan.Workflow == WorkflowTypeSweep {
		return NewSweepWorkflow(orchestrator, plan)
	}
	return NewSingleWorkflow(orchestrator, plan)
}

// SweepWorkflow runs an allocation sweep
type SweepWorkflow struct {
	orchestrator Orchestrator
	plan         Plan
}

// NewSweepWorkflow creates a new sweep workflow
func NewSweepWorkflow(orchestrator Orchestrator, plan Plan) Workflow {
	return &SweepWorkflow{orchestrator: orchestrator, plan: plan}
}

// Execute runs the sweep and converts the report, partial reports included
func (w *SweepWorkflow) Execute(ctx context.Context) (interface{}, error) {
	report, err := w.orchestrator.RunSweep(ctx, w.plan)
	if report == nil {
		return nil, err
	}
	return NewSweepResponse(report), err
}

// GetWorkflowType returns the workflow type
func (w *SweepWorkflow) GetWorkflowType() WorkflowType {
	return WorkflowTypeSweep
}

// SingleWorkflow runs one allocation
type SingleWorkflow struct {
	orchestrator Orchestrator
	plan         Plan
}

// NewSingleWorkflow creates a new single-allocation workflow
func NewSingleWorkflow(orchestrator Orchestrator, plan Plan) Workflow {
	return &SingleWorkflow{orchestrator: orchestrator, plan: plan}
}

// Execute runs the simulation
func (w *SingleWorkflow) Execute(ctx context.Context) (interface{}, error) {
	result, err := w.orchestrator.RunSingle(ctx, w.plan)
	if err != nil {
		return nil, err
	}
	return NewSingleResponse(result), nil
}

// GetWorkflowType returns the workflow type
func (w *SingleWorkflow) GetWorkflowType() WorkflowType {
	return WorkflowTypeSingle
}
