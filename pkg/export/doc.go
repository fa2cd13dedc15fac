// Package export writes the two side-car artifacts a finished tilemap.Map
// produces alongside its binary container (spec §6.5): a JSON document
// describing the map's legend, rooms, corridors and full request snapshot,
// and a tile-color PNG rendering of the grid. A third, debug-only SVG graph
// view is adapted from the teacher's room-graph visualizer for local
// inspection; it is not part of the side-car contract.
package export
