// Package persist implements the binary container (C11, spec §4.11, §6.2):
// a little-endian, version-gated encoding of a tilemap.Map that round-trips
// through Save/Load. Every integer is written at an explicit width so the
// format never depends on the host's native int size, and a version older
// than the current one still decodes by skipping the fields it predates.
//
// Load is exposed with the exact signature pkg/template.LoadFunc and
// pkg/dungeon.Generator.LoadTemplate expect, so a host wires
// persist.Load directly into both without either package importing this one.
package persist
