// Package tilemap defines the tile grid, its owned metadata arenas, the
// request/snapshot value types that describe how a map was produced, and the
// geometry primitives shared by every generation stage.
//
// A Map owns every piece of data that describes a generated dungeon: the
// dense tile grid, room and corridor records, the CSR-style room adjacency
// graph, edge openings, scalar metrics, diagnostics, and a self-sufficient
// snapshot of the request that produced it. Nothing in a Map is reference
// counted or garbage-collector dependent; every arena is a flat slice owned
// by exactly one Map, and Clone performs a deep copy of all of them.
package tilemap
