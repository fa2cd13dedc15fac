package connectivity

import (
	"fmt"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/gridgraph"

	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// Report is the result of analyzing one view of a map's connectivity.
type Report struct {
	ComponentCount       int
	LargestComponentSize int
	Connected            bool
	// ComponentOf[y*Width+x] is the 0-based component index of a walkable
	// cell, or -1 for a non-walkable cell. Components are numbered in the
	// row-major discovery order gridgraph.ConnectedComponents already walks
	// in, which matches the spec's tie-break rule.
	ComponentOf []int32
}

func cellValue(t tilemap.Tile) int {
	if t.Walkable() {
		return 1
	}
	return 0
}

// AnalyzeTopDown groups walkable cells into maximal 4-connected regions.
func AnalyzeTopDown(m *tilemap.Map) (Report, error) {
	if m.Width <= 0 || m.Height <= 0 {
		return Report{}, fmt.Errorf("connectivity: map has no cells")
	}
	values := make([][]int, m.Height)
	for y := int32(0); y < m.Height; y++ {
		row := make([]int, m.Width)
		for x := int32(0); x < m.Width; x++ {
			row[x] = cellValue(m.GetTile(x, y))
		}
		values[y] = row
	}
	gg, err := gridgraph.NewGridGraph(values, gridgraph.DefaultGridOptions())
	if err != nil {
		return Report{}, fmt.Errorf("connectivity: building grid graph: %w", err)
	}
	comps := gg.ConnectedComponents()[1]

	componentOf := make([]int32, int(m.Width)*int(m.Height))
	for i := range componentOf {
		componentOf[i] = -1
	}
	largest := 0
	for ci, comp := range comps {
		if len(comp) > largest {
			largest = len(comp)
		}
		for _, cell := range comp {
			componentOf[cell.Y*gg.Width+cell.X] = int32(ci)
		}
	}
	return Report{
		ComponentCount:       len(comps),
		LargestComponentSize: largest,
		Connected:            len(comps) <= 1,
		ComponentOf:          componentOf,
	}, nil
}

// GroundedReport additionally records, per component, whether any cell in
// it is reached from a cell with solid ground beneath it via a chain of
// falls no taller than maxFallDrop and jumps no wider than maxJumpGap.
type GroundedReport struct {
	Report
	Grounded []bool // Grounded[componentIndex]
}

func vid(x, y int32) string {
	return fmt.Sprintf("%d,%d", x, y)
}

func parseVid(id string) (int32, int32, bool) {
	var x, y int32
	if _, err := fmt.Sscanf(id, "%d,%d", &x, &y); err != nil {
		return 0, 0, false
	}
	return x, y, true
}

// isSolidBelowFunc reports whether the cell directly beneath x,y is solid
// (non-walkable) or off the bottom of the map, i.e. whether x,y is an actual
// landing spot rather than open space someone would keep falling through.
type isSolidBelowFunc func(x, y int32) bool

// buildSideViewGraph links walkable cells into the side-view reachability
// graph: a direct edge if horizontally adjacent and at the same height, a
// drop edge if one sits directly above the other within maxFallDrop cells,
// and a jump edge if horizontally within maxJumpGap cells at a landing
// height on both ends. Edges are added symmetrically (spec's closure
// requirement): being able to jump from A to B implies B is reachable from A
// and vice versa for analysis purposes, even though an actual platformer
// traversal would be asymmetric for drops.
func buildSideViewGraph(m *tilemap.Map, maxJumpGap, maxFallDrop int32) (*core.Graph, isSolidBelowFunc) {
	g := core.NewGraph()
	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			if m.GetTile(x, y).Walkable() {
				_ = g.AddVertex(vid(x, y))
			}
		}
	}

	isSolidBelow := func(x, y int32) bool {
		by := y + 1
		if by >= m.Height {
			return true
		}
		return !m.GetTile(x, by).Walkable()
	}

	addEdgeOnce := func(a, b string) {
		if a == b {
			return
		}
		_, _ = g.AddEdge(a, b, 1)
	}

	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			if !m.GetTile(x, y).Walkable() {
				continue
			}
			// Lateral step on the same row.
			if x+1 < m.Width && m.GetTile(x+1, y).Walkable() {
				addEdgeOnce(vid(x, y), vid(x+1, y))
			}
			// Vertical fall/climb within the same column.
			for dy := int32(1); dy <= maxFallDrop; dy++ {
				ny := y + dy
				if ny >= m.Height || !m.GetTile(x, ny).Walkable() {
					break
				}
				addEdgeOnce(vid(x, y), vid(x, ny))
			}
			// Horizontal jump gap at matching ground level.
			if isSolidBelow(x, y) {
				for dx := int32(2); dx <= maxJumpGap+1; dx++ {
					nx := x + dx
					if nx >= m.Width {
						break
					}
					if m.GetTile(nx, y).Walkable() && isSolidBelow(nx, y) {
						addEdgeOnce(vid(x, y), vid(nx, y))
					}
				}
			}
		}
	}

	return g, isSolidBelow
}

// AnalyzeSideViewGrounded reports, per top-down component, whether the graph
// built by buildSideViewGraph reaches it from some actual landing spot (a
// cell with solid ground beneath it).
func AnalyzeSideViewGrounded(m *tilemap.Map, maxJumpGap, maxFallDrop int32) (GroundedReport, error) {
	top, err := AnalyzeTopDown(m)
	if err != nil {
		return GroundedReport{}, err
	}

	g, isSolidBelow := buildSideViewGraph(m, maxJumpGap, maxFallDrop)

	grounded := make([]bool, top.ComponentCount)
	visitedGlobal := make(map[string]bool)
	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			if !m.GetTile(x, y).Walkable() || !isSolidBelow(x, y) {
				continue
			}
			id := vid(x, y)
			if visitedGlobal[id] {
				continue
			}
			res, err := bfs.BFS(g, id)
			if err != nil {
				return GroundedReport{}, fmt.Errorf("connectivity: grounded bfs: %w", err)
			}
			for _, reachedID := range res.Order {
				visitedGlobal[reachedID] = true
				if rx, ry, ok := parseVid(reachedID); ok {
					ci := top.ComponentOf[ry*m.Width+rx]
					if ci >= 0 {
						grounded[ci] = true
					}
				}
			}
		}
	}

	return GroundedReport{Report: top, Grounded: grounded}, nil
}

// graphComponents assigns every vertex of g a 0-based component index,
// numbered in the order components are first discovered while scanning m in
// row-major order (matching the spec's tie-break rule), and reports each
// component's size and whether it contains an actual landing spot.
func graphComponents(m *tilemap.Map, g *core.Graph, isSolidBelow isSolidBelowFunc) (componentOf map[string]int32, sizes []int, grounded []bool) {
	componentOf = make(map[string]int32)
	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			if !m.GetTile(x, y).Walkable() {
				continue
			}
			id := vid(x, y)
			if _, seen := componentOf[id]; seen {
				continue
			}
			res, err := bfs.BFS(g, id)
			if err != nil {
				continue
			}
			ci := int32(len(sizes))
			hasGround := false
			for _, reachedID := range res.Order {
				componentOf[reachedID] = ci
				if rx, ry, ok := parseVid(reachedID); ok && isSolidBelow(rx, ry) {
					hasGround = true
				}
			}
			sizes = append(sizes, len(res.Order))
			grounded = append(grounded, hasGround)
		}
	}
	return componentOf, sizes, grounded
}

// componentSizes counts, per component index, how many cells belong to it.
func componentSizes(report Report) []int {
	sizes := make([]int, report.ComponentCount)
	for _, ci := range report.ComponentOf {
		if ci >= 0 {
			sizes[ci]++
		}
	}
	return sizes
}

// largestComponent returns the index of the largest component, breaking
// ties by row-major discovery order (the first component found wins, since
// later components must strictly exceed it to take over).
func largestComponent(sizes []int) int {
	largest := 0
	for ci := 1; ci < len(sizes); ci++ {
		if sizes[ci] > sizes[largest] {
			largest = ci
		}
	}
	return largest
}

// EnforceSingleConnectedRegion retains the largest top-down component and
// rewrites every other walkable tile to Wall, the enforce_single_connected_region
// operation. Ties between equally sized components are broken by row-major
// discovery order.
func EnforceSingleConnectedRegion(m *tilemap.Map) (Report, error) {
	report, err := AnalyzeTopDown(m)
	if err != nil {
		return Report{}, err
	}
	if report.ComponentCount <= 1 {
		return report, nil
	}
	largest := largestComponent(componentSizes(report))
	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			ci := report.ComponentOf[y*m.Width+x]
			if ci >= 0 && int(ci) != largest {
				m.SetTile(x, y, tilemap.Wall)
			}
		}
	}
	m.RecomputeWalkableMetrics()
	return AnalyzeTopDown(m)
}

// fallDestination simulates x,y dropping straight down under gravity and
// returns the cell it comes to rest on: the first walkable cell with solid
// ground beneath it, or false if the column runs off the bottom of the map
// without ever landing on one.
func fallDestination(m *tilemap.Map, x, y int32) (int32, int32, bool) {
	for cy := y; cy < m.Height; cy++ {
		if !m.GetTile(x, cy).Walkable() {
			return 0, 0, false
		}
		below := cy + 1
		if below >= m.Height || !m.GetTile(x, below).Walkable() {
			return x, cy, true
		}
	}
	return 0, 0, false
}

// EnforceSideViewGroundedConnectivity retains the largest grounded component
// of the side-view reachability graph (lateral steps, falls, and jumps) and
// removes every walkable tile whose column-fall destination lies outside it,
// the enforce_side_view_grounded_connectivity operation. Ties between
// equally sized grounded components are broken by row-major discovery order.
func EnforceSideViewGroundedConnectivity(m *tilemap.Map, maxJumpGap, maxFallDrop int32) (GroundedReport, error) {
	g, isSolidBelow := buildSideViewGraph(m, maxJumpGap, maxFallDrop)
	componentOf, sizes, grounded := graphComponents(m, g, isSolidBelow)

	target := int32(-1)
	for ci, ok := range grounded {
		if !ok {
			continue
		}
		if target == -1 || sizes[ci] > sizes[target] {
			target = int32(ci)
		}
	}
	if target != -1 {
		for y := int32(0); y < m.Height; y++ {
			for x := int32(0); x < m.Width; x++ {
				if !m.GetTile(x, y).Walkable() {
					continue
				}
				destComponent := int32(-1)
				if dx, dy, ok := fallDestination(m, x, y); ok {
					destComponent = componentOf[vid(dx, dy)]
				}
				if destComponent != target {
					m.SetTile(x, y, tilemap.Wall)
				}
			}
		}
		m.RecomputeWalkableMetrics()
	}
	return AnalyzeSideViewGrounded(m, maxJumpGap, maxFallDrop)
}
