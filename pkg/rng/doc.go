// Package rng provides the single deterministic random source used by every
// generation stage.
//
// # Overview
//
// RNG wraps a 64-bit xorshift state with a multiplicative finalizer. Given
// the same seed, two RNG instances produce call-for-call identical output on
// any platform: the same sequence of Uint32, Range, and Float32 draws in the
// same order yields the same dungeon. Callers must not depend on any
// statistical property beyond this determinism contract — in particular,
// Range is intentionally biased for spans close to 2^32 because it is
// implemented as a modulo reduction, and that bias is part of the
// reproducibility contract rather than a defect to fix.
//
// # Usage
//
//	r := rng.New(1337)
//	pick := r.Range(0, 9) // inclusive both ends
//	u := r.Uint32()
//	f := r.Float32() // [0, 1]
//
// # Thread Safety
//
// RNG is not safe for concurrent use. A single generate call uses its RNG
// sequentially; callers running multiple generations concurrently must give
// each its own RNG instance.
package rng
