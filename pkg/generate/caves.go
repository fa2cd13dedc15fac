package generate

import (
	"github.com/dshills/dungeoneer-go/pkg/connectivity"
	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// retainLargestTopDownComponent walls off every walkable cell outside the
// largest top-down component, used by generators whose ensure_connected flag
// asks for a single connected floor region rather than an explicit
// connectivity-repair pass.
func retainLargestTopDownComponent(m *tilemap.Map) {
	_, _ = connectivity.EnforceSingleConnectedRegion(m)
}

var cardinals = [4][2]int32{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// genOrganicCave implements G2 (spec §4.5).
func genOrganicCave(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.OrganicCave
	total := int64(m.Width) * int64(m.Height)
	steps := int64(p.WalkSteps)
	if steps <= 0 {
		steps = total
	}
	brushRadius := tilemap.ClampInt32(p.BrushRadius, 0, 6)
	targetCoverage := tilemap.ClampFloat(p.TargetFloorCoverage, 0, 0.9)
	safetyBound := 10 * total

	x, y := m.Width/2, m.Height/2
	var walked int64
	var draws int64
	for walked < steps && draws < safetyBound {
		tilemap.PaintBrush(m, x, y, brushRadius, tilemap.Floor)
		draws++
		walked++

		if draws%19 == 0 {
			x = r.Range32(1, m.Width-2)
			y = r.Range32(1, m.Height-2)
			continue
		}
		d := cardinals[r.RangeInt(0, 3)]
		x = tilemap.ClampInt32(x+d[0], 1, m.Width-2)
		y = tilemap.ClampInt32(y+d[1], 1, m.Height-2)

		m.RecomputeWalkableMetrics()
		if float64(m.Metrics.WalkableTileCount) >= targetCoverage*float64(total) {
			break
		}
	}

	for pass := int32(0); pass < tilemap.ClampInt32(p.SmoothingPasses, 0, 8); pass++ {
		applyMajorityRule(m)
	}
	m.RecomputeWalkableMetrics()
	return nil
}

func applyMajorityRule(m *tilemap.Map) {
	next := make([]tilemap.Tile, len(m.Tiles))
	copy(next, m.Tiles)
	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			n := countWalkableNeighbors8(m, x, y)
			idx := int(y)*int(m.Width) + int(x)
			if n >= 5 {
				next[idx] = tilemap.Floor
			} else if n <= 2 {
				next[idx] = tilemap.Wall
			}
		}
	}
	m.Tiles = next
}

func countWalkableNeighbors8(m *tilemap.Map, x, y int32) int {
	n := 0
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !m.InBounds(nx, ny) || m.GetTile(nx, ny).Walkable() {
				n++
			}
		}
	}
	return n
}

// genDrunkardsWalk implements G4 (spec §4.5).
func genDrunkardsWalk(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.DrunkardsWalk
	total := int64(m.Width) * int64(m.Height)
	target := total * 33 / 100
	if target < 16 {
		target = 16
	}
	maxSteps := total * 24

	x, y := m.Width/2, m.Height/2
	m.SetTile(x, y, tilemap.Floor)
	dir := cardinals[r.RangeInt(0, 3)]

	var floorCount int64 = 1
	for step := int64(0); step < maxSteps && floorCount < target; step++ {
		if r.Bool(int(p.WigglePercent)) {
			dir = cardinals[r.RangeInt(0, 3)]
		}
		nx := tilemap.ClampInt32(x+dir[0], 1, m.Width-2)
		ny := tilemap.ClampInt32(y+dir[1], 1, m.Height-2)
		x, y = nx, ny
		if m.GetTile(x, y) != tilemap.Floor {
			m.SetTile(x, y, tilemap.Floor)
			floorCount++
		}
	}
	m.RecomputeWalkableMetrics()
	return nil
}

// genWormCaves implements G10 (spec §4.5).
func genWormCaves(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.WormCaves
	total := int64(m.Width) * int64(m.Height)
	target := total * int64(p.TargetFloorPercent) / 100
	poolCap := p.WormCount * 8
	if poolCap > 512 {
		poolCap = 512
	}

	type worm struct {
		x, y int32
		dir  [2]int32
		step int32
	}
	var pool []worm
	for i := int32(0); i < p.WormCount; i++ {
		pool = append(pool, worm{
			x: r.Range32(1, m.Width-2), y: r.Range32(1, m.Height-2),
			dir: cardinals[r.RangeInt(0, 3)],
		})
	}

	var floorCount int64
	for i := 0; i < len(pool); i++ {
		w := &pool[i]
		for w.step < p.MaxStepsPerWorm {
			tilemap.PaintBrush(m, w.x, w.y, p.BrushRadius, tilemap.Floor)
			w.step++
			if r.Bool(int(p.WigglePercent)) {
				w.dir = cardinals[r.RangeInt(0, 3)]
			}
			w.x = tilemap.ClampInt32(w.x+w.dir[0], 1, m.Width-2)
			w.y = tilemap.ClampInt32(w.y+w.dir[1], 1, m.Height-2)

			if len(pool) < int(poolCap) && r.Bool(int(p.BranchChancePercent)) {
				pool = append(pool, worm{x: w.x, y: w.y, dir: cardinals[r.RangeInt(0, 3)]})
			}

			m.RecomputeWalkableMetrics()
			floorCount = int64(m.Metrics.WalkableTileCount)
			if floorCount >= target {
				break
			}
		}
		if floorCount >= target {
			break
		}
	}

	m.RecomputeWalkableMetrics()
	if p.EnsureConnected {
		retainLargestTopDownComponent(m)
	}
	return nil
}
