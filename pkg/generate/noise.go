package generate

import (
	"math"

	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// genCellularAutomata implements G5 (spec §4.5).
func genCellularAutomata(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.CellularAutomata
	floorProb := 100 - int(p.InitialWallPercent)
	for y := int32(1); y < m.Height-1; y++ {
		for x := int32(1); x < m.Width-1; x++ {
			if r.Bool(floorProb) {
				m.SetTile(x, y, tilemap.Floor)
			}
		}
	}

	for step := int32(0); step < p.SimulationSteps; step++ {
		next := make([]tilemap.Tile, len(m.Tiles))
		for y := int32(0); y < m.Height; y++ {
			for x := int32(0); x < m.Width; x++ {
				wallNeighbors := 8 - countWalkableNeighbors8(m, x, y)
				idx := int(y)*int(m.Width) + int(x)
				if int32(wallNeighbors) >= p.WallThreshold {
					next[idx] = tilemap.Wall
				} else {
					next[idx] = tilemap.Floor
				}
			}
		}
		m.Tiles = next
	}

	m.RecomputeWalkableMetrics()
	if m.Metrics.WalkableTileCount == 0 {
		m.SetTile(m.Width/2, m.Height/2, tilemap.Floor)
	}
	retainLargestTopDownComponent(m)
	return nil
}

// latticeNoise2D is a deterministic value-noise lattice seeded from r: each
// integer lattice point gets a fixed pseudo-random value, and samples
// between points are bilinearly interpolated.
type latticeNoise2D struct {
	cellSize int32
	table    map[[2]int32]float64
	r        *rng.RNG
}

func newLatticeNoise2D(cellSize int32, r *rng.RNG) *latticeNoise2D {
	if cellSize < 1 {
		cellSize = 1
	}
	return &latticeNoise2D{cellSize: cellSize, table: make(map[[2]int32]float64), r: r}
}

func (n *latticeNoise2D) lattice(ix, iy int32) float64 {
	key := [2]int32{ix, iy}
	if v, ok := n.table[key]; ok {
		return v
	}
	v := float64(n.r.Uint32()) / 4294967296.0
	n.table[key] = v
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func (n *latticeNoise2D) sample(x, y float64) float64 {
	cs := float64(n.cellSize)
	fx, fy := x/cs, y/cs
	ix0, iy0 := int32(math.Floor(fx)), int32(math.Floor(fy))
	ix1, iy1 := ix0+1, iy0+1
	tx, ty := fx-math.Floor(fx), fy-math.Floor(fy)

	v00 := n.lattice(ix0, iy0)
	v10 := n.lattice(ix1, iy0)
	v01 := n.lattice(ix0, iy1)
	v11 := n.lattice(ix1, iy1)

	top := lerp(v00, v10, tx)
	bottom := lerp(v01, v11, tx)
	return lerp(top, bottom, ty)
}

// genValueNoise implements G6 (spec §4.5).
func genValueNoise(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.ValueNoise
	persistence := float64(p.PersistencePercent) / 100.0
	threshold := float64(p.FloorThresholdPercent) / 100.0

	octaves := make([]*latticeNoise2D, p.Octaves)
	for o := int32(0); o < p.Octaves; o++ {
		octaves[o] = newLatticeNoise2D(p.FeatureSize>>uint(o), r)
	}

	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			total, amplitudeSum := 0.0, 0.0
			amplitude := 1.0
			for o := int32(0); o < p.Octaves; o++ {
				total += octaves[o].sample(float64(x), float64(y)) * amplitude
				amplitudeSum += amplitude
				amplitude *= persistence
			}
			v := total / amplitudeSum
			if v >= threshold {
				m.SetTile(x, y, tilemap.Floor)
			}
		}
	}
	m.RecomputeWalkableMetrics()
	retainLargestTopDownComponent(m)
	return nil
}

// simplexNoise2D is a minimal 2D simplex implementation whose permutation
// table is built by Fisher-Yates over [0,256) using the request's RNG, per
// spec §4.5 G7.
type simplexNoise2D struct {
	perm [512]int
}

func newSimplexNoise2D(r *rng.RNG) *simplexNoise2D {
	var p [256]int
	for i := range p {
		p[i] = i
	}
	for i := 255; i > 0; i-- {
		j := r.RangeInt(0, i)
		p[i], p[j] = p[j], p[i]
	}
	s := &simplexNoise2D{}
	for i := 0; i < 512; i++ {
		s.perm[i] = p[i&255]
	}
	return s
}

var grad2 = [8][2]float64{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func (s *simplexNoise2D) sample(x, y float64) float64 {
	const f2 = 0.3660254037844386 // (sqrt(3)-1)/2
	const g2 = 0.21132486540518713 // (3-sqrt(3))/6

	skew := (x + y) * f2
	i, j := math.Floor(x+skew), math.Floor(y+skew)
	unskew := (i + j) * g2
	x0, y0 := x-(i-unskew), y-(j-unskew)

	var i1, j1 int
	if x0 > y0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii, jj := int(i)&255, int(j)&255
	g0 := grad2[s.perm[ii+s.perm[jj]]%8]
	g1 := grad2[s.perm[ii+i1+s.perm[jj+j1]]%8]
	g2v := grad2[s.perm[ii+1+s.perm[jj+1]]%8]

	n0 := cornerContribution(x0, y0, g0)
	n1 := cornerContribution(x1, y1, g1)
	n2 := cornerContribution(x2, y2, g2v)

	return 70 * (n0 + n1 + n2)
}

func cornerContribution(x, y float64, g [2]float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	return t * t * (g[0]*x + g[1]*y)
}

// genSimplexNoise implements G7 (spec §4.5).
func genSimplexNoise(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.SimplexNoise
	noise := newSimplexNoise2D(r)
	persistence := float64(p.PersistencePercent) / 100.0
	threshold := float64(p.FloorThresholdPercent)/100.0*2 - 1 // map [0,1] threshold onto simplex's ~[-1,1] range

	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			total, amplitudeSum := 0.0, 0.0
			amplitude := 1.0
			frequency := 1.0 / float64(p.FeatureSize)
			for o := int32(0); o < p.Octaves; o++ {
				total += noise.sample(float64(x)*frequency, float64(y)*frequency) * amplitude
				amplitudeSum += amplitude
				amplitude *= persistence
				frequency *= 2
			}
			v := total / amplitudeSum
			if v >= threshold {
				m.SetTile(x, y, tilemap.Floor)
			}
		}
	}
	m.RecomputeWalkableMetrics()
	if p.EnsureConnected {
		retainLargestTopDownComponent(m)
	}
	return nil
}
