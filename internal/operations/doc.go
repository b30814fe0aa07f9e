// Package operations runs the census report as a sequence of steps.
//
// Core Components:
//
// Manager: executes the registered steps in dependency order, one at a
// time, checking for cancellation between steps. Each step runs under its
// own timeout and span; per-step status, duration and metadata are kept
// in a StepState.
//
// Step: a single unit of work. The census operation registers seven:
// load, aggregate, cluster, group, charts, report and export. Steps hand
// their results to each other through the typed Artifacts of the
// OperationState.
//
// Registry: holds the steps in registration order and resolves the
// dependency order, optionally restricted to a subset of steps.
//
// Example usage:
//
//	cfg, _ := config.Load("censo.yaml")
//	manager, err := operations.NewCensusOperation(cfg, operations.Dependencies{})
//	if err != nil {
//		return err
//	}
//	resp, err := manager.Execute(ctx, operations.OperationRequest{})
//
// A clustering failure does not fail the operation: the charts step skips
// the pie chart and the report explains why.
package operations
