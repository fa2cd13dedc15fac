// Package connectivity implements C4: the two connectivity views every
// generator and post-process step is checked against.
//
// The top-down view treats every walkable cell as land and asks which
// maximal 4-connected groups of walkable cells exist, in the row-major
// discovery order the spec's tie-break rule requires. This is built directly
// on katalvlaran-lvlath/gridgraph.ConnectedComponents, which already walks
// cells in row-major order and groups by equal value.
//
// The side-view "grounded" view additionally requires a walkable cell to be
// standing on solid ground (or on a jump/drop arc within reach) rather than
// merely 4-connected to another walkable cell; it is built on
// katalvlaran-lvlath/core.Graph plus the bfs package, since grounded
// reachability is not a grid predicate gridgraph already knows.
package connectivity
