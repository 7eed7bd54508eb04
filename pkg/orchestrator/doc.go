// Package orchestrator wires the config store, the section planner and the
// renderer registry into a single Generate call, for consumers that prefer
// one entry point over assembling the pipeline themselves.
package orchestrator
