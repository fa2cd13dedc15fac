// Package generate implements C5: the ten interchangeable base generators.
// Each is a pure function of (request, rng) that fills an already-Init'd
// Map; none of them read or write package-level state, so two generators can
// run concurrently against independent Maps sharing nothing but the
// algorithms themselves (spec §5).
//
// G1/G3/G8/G9 are ROOM_LIKE: they populate Rooms, Corridors, and the CSR
// adjacency arrays. G2/G4/G5/G6/G7/G10 are CAVE_LIKE: they carve tiles
// directly and leave the room arenas empty, relying on pkg/connectivity to
// report on the resulting topology.
package generate
