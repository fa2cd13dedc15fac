package process

import (
	"github.com/dshills/dungeoneer-go/pkg/connectivity"
	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// Run executes cfg.Methods against m in order, appending one diagnostic per
// step to m.Diagnostics.ProcessSteps. On the first method that fails, Run
// clears every diagnostic recorded during this call (not prior calls) and
// returns the failure.
func Run(cfg *tilemap.ProcessConfig, m *tilemap.Map, r *rng.RNG) error {
	if !cfg.Enabled {
		return nil
	}
	start := len(m.Diagnostics.ProcessSteps)
	for _, method := range cfg.Methods {
		before, err := connectivity.AnalyzeTopDown(m)
		walkableBefore := m.Metrics.WalkableTileCount
		if err != nil {
			walkableBefore = 0
		}

		if err := runMethod(&method, m, r); err != nil {
			m.Diagnostics.ProcessSteps = m.Diagnostics.ProcessSteps[:start]
			return err
		}

		m.RecomputeWalkableMetrics()
		after, err := connectivity.AnalyzeTopDown(m)
		if err != nil {
			m.Diagnostics.ProcessSteps = m.Diagnostics.ProcessSteps[:start]
			return dgerr.Wrap("process.Run", dgerr.GenerationFailed, err)
		}

		diag := tilemap.ProcessStepDiagnostic{
			MethodType:       method.Type,
			WalkableBefore:   walkableBefore,
			WalkableAfter:    m.Metrics.WalkableTileCount,
			WalkableDelta:    int64(m.Metrics.WalkableTileCount) - int64(walkableBefore),
			ComponentsBefore: uint64(before.ComponentCount),
			ComponentsAfter:  uint64(after.ComponentCount),
			ComponentsDelta:  int64(after.ComponentCount) - int64(before.ComponentCount),
			ConnectedBefore:  before.Connected,
			ConnectedAfter:   after.Connected,
		}
		m.Diagnostics.ProcessSteps = append(m.Diagnostics.ProcessSteps, diag)
	}
	return nil
}

func runMethod(method *tilemap.ProcessMethod, m *tilemap.Map, r *rng.RNG) error {
	switch method.Type {
	case tilemap.ProcessScale:
		return applyScale(&method.Scale, m)
	case tilemap.ProcessRoomShape:
		return applyRoomShape(&method.RoomShape, m, r)
	case tilemap.ProcessPathSmooth:
		return applyPathSmooth(&method.PathSmooth, m)
	case tilemap.ProcessCorridorRoughen:
		return applyCorridorRoughen(&method.CorridorRoughen, m, r)
	default:
		return dgerr.New("process.runMethod", dgerr.InvalidArgument)
	}
}

// applyScale replaces the grid with a factor x upscaled copy (nearest
// neighbor), and rescales every geometric metadata field (room bounds,
// corridor length, edge opening coordinates) by the same factor so the map
// remains internally consistent.
func applyScale(p *tilemap.ScaleParams, m *tilemap.Map) error {
	factor := p.Factor
	if factor < 1 {
		return dgerr.New("process.applyScale", dgerr.InvalidArgument)
	}
	if factor == 1 {
		return nil
	}
	newW, newH := m.Width*factor, m.Height*factor
	newTiles := make([]tilemap.Tile, int(newW)*int(newH))
	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			t := m.GetTile(x, y)
			for dy := int32(0); dy < factor; dy++ {
				for dx := int32(0); dx < factor; dx++ {
					nx, ny := x*factor+dx, y*factor+dy
					newTiles[int(ny)*int(newW)+int(nx)] = t
				}
			}
		}
	}
	m.Width, m.Height, m.Tiles = newW, newH, newTiles

	for i := range m.Rooms {
		b := m.Rooms[i].Bounds
		m.Rooms[i].Bounds = tilemap.Rect{X: b.X * factor, Y: b.Y * factor, Width: b.Width * factor, Height: b.Height * factor}
	}
	for i := range m.Corridors {
		m.Corridors[i].Length *= factor
	}
	for i := range m.EdgeOpenings {
		o := &m.EdgeOpenings[i]
		o.Start *= factor
		o.End *= factor
		o.Length *= factor
		o.EdgeTile = tilemap.Point{X: o.EdgeTile.X * factor, Y: o.EdgeTile.Y * factor}
		o.InwardTile = tilemap.Point{X: o.InwardTile.X * factor, Y: o.InwardTile.Y * factor}
	}
	for i := range m.RoomEntrances {
		e := &m.RoomEntrances[i]
		e.RoomTile = tilemap.Point{X: e.RoomTile.X * factor, Y: e.RoomTile.Y * factor}
		e.CorridorTile = tilemap.Point{X: e.CorridorTile.X * factor, Y: e.CorridorTile.Y * factor}
	}
	return nil
}

// applyRoomShape reshapes each room's interior footprint, leaving its
// bounding rectangle (and hence corridor endpoints) unchanged.
func applyRoomShape(p *tilemap.RoomShapeParams, m *tilemap.Map, r *rng.RNG) error {
	for _, room := range m.Rooms {
		switch p.Mode {
		case tilemap.RoomShapeRectangular:
			// Already rectangular from placement; nothing to do.
		case tilemap.RoomShapeChamfered:
			chamferRoom(m, room.Bounds)
		case tilemap.RoomShapeOrganic, tilemap.RoomShapeCellular:
			roughenRoomInterior(m, room.Bounds, r, p.Organicity)
		}
	}
	return nil
}

func chamferRoom(m *tilemap.Map, b tilemap.Rect) {
	if b.Width < 3 || b.Height < 3 {
		return
	}
	m.SetTile(b.Left(), b.Top(), tilemap.Wall)
	m.SetTile(b.Right()-1, b.Top(), tilemap.Wall)
	m.SetTile(b.Left(), b.Bottom()-1, tilemap.Wall)
	m.SetTile(b.Right()-1, b.Bottom()-1, tilemap.Wall)
}

func roughenRoomInterior(m *tilemap.Map, b tilemap.Rect, r *rng.RNG, organicity int32) {
	if b.Width < 3 || b.Height < 3 {
		return
	}
	for y := b.Top(); y < b.Bottom(); y++ {
		for x := b.Left(); x < b.Right(); x++ {
			onBorder := x == b.Left() || x == b.Right()-1 || y == b.Top() || y == b.Bottom()-1
			if onBorder && r.Bool(int(organicity)) {
				m.SetTile(x, y, tilemap.Wall)
			}
		}
	}
}

// applyPathSmooth runs inner/outer corner smoothing over every non-border
// wall/floor boundary, strength times.
func applyPathSmooth(p *tilemap.PathSmoothParams, m *tilemap.Map) error {
	for pass := int32(0); pass < p.Strength; pass++ {
		if p.InnerEnabled {
			smoothCorners(m, true)
		}
		if p.OuterEnabled {
			smoothCorners(m, false)
		}
	}
	return nil
}

// smoothCorners removes single-tile diagonal notches: inner smoothing fills
// a wall corner cell that has two orthogonal floor neighbors forming an L;
// outer smoothing carves the symmetric case for a lone floor corner cell.
func smoothCorners(m *tilemap.Map, inner bool) {
	next := make([]tilemap.Tile, len(m.Tiles))
	copy(next, m.Tiles)
	for y := int32(1); y < m.Height-1; y++ {
		for x := int32(1); x < m.Width-1; x++ {
			idx := int(y)*int(m.Width) + int(x)
			cur := m.GetTile(x, y)
			n, s, e, w := m.GetTile(x, y-1), m.GetTile(x, y+1), m.GetTile(x+1, y), m.GetTile(x-1, y)
			if inner && !cur.Walkable() {
				if (n.Walkable() && e.Walkable()) || (n.Walkable() && w.Walkable()) ||
					(s.Walkable() && e.Walkable()) || (s.Walkable() && w.Walkable()) {
					next[idx] = tilemap.Floor
				}
			}
			if !inner && cur.Walkable() {
				if !n.Walkable() && !e.Walkable() || !n.Walkable() && !w.Walkable() ||
					!s.Walkable() && !e.Walkable() || !s.Walkable() && !w.Walkable() {
					next[idx] = tilemap.Wall
				}
			}
		}
	}
	m.Tiles = next
}

// applyCorridorRoughen randomly promotes wall cells adjacent to a corridor
// floor cell (a walkable cell outside every room's bounds) to floor, up to
// maxDepth cells deep, at a rate of strength percent per cell per depth level.
func applyCorridorRoughen(p *tilemap.CorridorRoughenParams, m *tilemap.Map, r *rng.RNG) error {
	frontier := corridorFrontier(m)
	for depth := int32(0); depth < p.MaxDepth; depth++ {
		var next []tilemap.Point
		for _, pt := range frontier {
			for _, d := range cardinals {
				nx, ny := pt.X+d[0], pt.Y+d[1]
				if !m.InBounds(nx, ny) || m.GetTile(nx, ny).Walkable() {
					continue
				}
				chance := int(p.Strength)
				if p.Mode == tilemap.RoughenOrganic {
					chance = chance * int(p.MaxDepth-depth) / int(p.MaxDepth)
				}
				if r.Bool(chance) {
					m.SetTile(nx, ny, tilemap.Floor)
					next = append(next, tilemap.Point{X: nx, Y: ny})
				}
			}
		}
		frontier = next
	}
	return nil
}

var cardinals = [4][2]int32{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

func corridorFrontier(m *tilemap.Map) []tilemap.Point {
	var pts []tilemap.Point
	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			if !m.GetTile(x, y).Walkable() {
				continue
			}
			inRoom := false
			for _, rm := range m.Rooms {
				if rm.Bounds.Contains(x, y) {
					inRoom = true
					break
				}
			}
			if !inRoom {
				pts = append(pts, tilemap.Point{X: x, Y: y})
			}
		}
	}
	return pts
}
