// Package dungeon implements the orchestrator (C10, spec §4.10): the
// twelve-state pipeline that turns a GenerateRequest into a finished Map.
//
// Generate drives the map through INIT_EMPTY, BASE_GENERATED,
// METADATA_COMPUTED, TYPES_ASSIGNED, TEMPLATES_APPLIED, POST_PROCESSED,
// OUTER_WALLED, EDGES_CARVED, METADATA_RECOMPUTED, EDGE_ROLES_SET,
// SNAPSHOTTED and RETURNED in order, wiring together pkg/generate,
// pkg/process, pkg/roomtypes, pkg/template and pkg/validation. Any stage
// failure destroys the partial map and, for a GENERATION_FAILED status,
// retries the whole pipeline with a derived seed up to
// Constraints.MaxGenerationAttempts (spec §7); every other status is
// terminal for the call.
//
// Per spec §5 the core has no cancellation or timeout support: Generate does
// not take a context.Context, unlike the teacher's
// Generate(ctx, cfg) (*Artifact, error) signature — a host that wants to
// bound work wraps the call itself.
package dungeon
