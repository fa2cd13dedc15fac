// Package roomtypes implements C7, the constraint-satisfying room-type
// assigner, plus the role-placement weighting supplemented from the
// original implementation's dg_role_placement_weights_t (SPEC_FULL.md §3).
//
// Assign applies only to ROOM_LIKE maps. It computes per-room features
// (area, degree, border distance, graph depth — the last via
// katalvlaran-lvlath/bfs over a core.Graph built from the room adjacency
// CSR), scores every (room, type) pair, and runs the six-step
// minimum/fill/fallback algorithm spec §4.7 describes.
package roomtypes
