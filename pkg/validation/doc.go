// Package validation implements C9: pre-generate request validation and the
// post-generate acceptance test a finished map must pass against its
// request's Constraints (spec §4.9).
//
// The Report/CheckResult shape follows the teacher's
// dungeon.ValidationReport/ConstraintResult pair (pkg/dungeon/artifact.go):
// every individual check is recorded, not just the aggregate pass/fail, so a
// caller can report exactly which constraint failed.
package validation
