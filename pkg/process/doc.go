// Package process implements C6: the ordered post-process pipeline.
//
// A ProcessConfig is a value (spec §9 — "a process is a value", not a
// pointer to a live pipeline): Run replays its Methods list against a Map in
// order, recording one ProcessStepDiagnostic per method. If any step fails,
// the pipeline aborts and the Diagnostics recorded so far are cleared,
// matching the teacher's map.go ClearMetadata-on-failure convention adapted
// to this package's own failure path.
package process
