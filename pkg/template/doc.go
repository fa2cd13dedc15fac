// Package template implements C8, the recursive room-template stamper.
//
// A template is a persisted map (spec §4.8) whose own request snapshot may
// not itself reference a template, and whose scale factor is folded out of
// its post-process history before resampling begins. Stamper is
// configuration-as-a-value plus two injected collaborators — Generate and
// LoadTemplate — following the teacher's embedding.Embedder /
// embedding.Register dependency-injection idiom (the generator and the
// persisted-map loader both live in packages that would otherwise import
// this one, so they're supplied as function values instead of imported
// directly). DepthGuard enforces the non-recursion / non-reentrancy rule
// spec §4.8/§9 requires, scoped per caller rather than as package state so
// concurrent orchestrator calls never share it.
package template
