package template

import (
	"math"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// maxStampRetries bounds the GENERATION_FAILED retry budget spec §4.8 step 3
// allows while shrinking the sub-map request toward the room bounds.
const maxStampRetries = 4

// GenerateFunc produces a fresh map from a request and seed. The orchestrator
// supplies its own generate entry point here to avoid pkg/template importing
// pkg/dungeon.
type GenerateFunc func(req *tilemap.GenerateRequest, seed uint64) (*tilemap.Map, error)

// LoadFunc loads a persisted map from path. The orchestrator supplies
// pkg/persist's reader here to avoid pkg/template importing pkg/persist.
type LoadFunc func(path string) (*tilemap.Map, error)

// Stamper stamps typed rooms with sub-maps generated from a template
// definition. It carries no state of its own beyond its two collaborators;
// every Stamp call is independent (spec §5 purity requirement extended to
// this package).
type Stamper struct {
	Generate     GenerateFunc
	LoadTemplate LoadFunc
}

// DepthGuard is the non-recursion / non-reentrancy counter spec §4.8/§9.355
// requires. Callers own one instance per top-level generate call; it must
// never be shared across concurrent calls.
type DepthGuard struct {
	depth int
}

// enter increments the guard and rejects re-entry.
func (g *DepthGuard) enter() error {
	if g.depth != 0 {
		return dgerr.New("template.DepthGuard.enter", dgerr.GenerationFailed)
	}
	g.depth++
	return nil
}

func (g *DepthGuard) leave() {
	g.depth--
}

// StampAll applies StampRoom to every room in m whose type (or, if untyped,
// the policy's untyped template) names a template_map_path, using seed as
// the base seed for sub-generation (each room's sub-seed is derived from it
// so stamping is deterministic for a fixed map and seed).
func (s *Stamper) StampAll(cfg *tilemap.RoomTypeAssignmentConfig, m *tilemap.Map, seed uint64, guard *DepthGuard) error {
	defByType := make(map[uint32]tilemap.RoomTypeDefinition, len(cfg.Definitions))
	for _, def := range cfg.Definitions {
		defByType[def.TypeID] = def
	}
	for i := range m.Rooms {
		room := &m.Rooms[i]
		path := ""
		var def tilemap.RoomTypeDefinition
		if room.TypeID == tilemap.UnassignedType {
			path = cfg.Policy.UntypedTemplateMapPath
		} else if d, ok := defByType[room.TypeID]; ok {
			path = d.TemplateMapPath
			def = d
		}
		if path == "" {
			continue
		}
		subSeed := seed ^ (uint64(i+1) * 0x9E3779B97F4A7C15)
		if err := s.StampRoom(def, path, room.Bounds, m, subSeed, guard); err != nil {
			return err
		}
	}
	return nil
}

// StampRoom stamps a single room's interior from the template at path.
func (s *Stamper) StampRoom(def tilemap.RoomTypeDefinition, path string, bounds tilemap.Rect, host *tilemap.Map, seed uint64, guard *DepthGuard) error {
	if err := guard.enter(); err != nil {
		return err
	}
	defer guard.leave()

	tmpl, err := s.LoadTemplate(path)
	if err != nil {
		return dgerr.Wrap("template.StampRoom", dgerr.GenerationFailed, err)
	}
	if hasNestedTemplate(&tmpl.Request) {
		return dgerr.New("template.StampRoom", dgerr.GenerationFailed)
	}

	scale := effectiveScale(&tmpl.Request)
	subW := ceilDiv(bounds.Width, scale)
	subH := ceilDiv(bounds.Height, scale)

	entranceRuns := detectEntranceRuns(host, bounds)

	var sub *tilemap.Map
	for attempt := 0; attempt < maxStampRetries; attempt++ {
		req := tmpl.Request
		req.Width = maxInt32(subW-int32(attempt), tilemap.TemplateMinSize)
		req.Height = maxInt32(subH-int32(attempt), tilemap.TemplateMinSize)
		req.Seed = seed + uint64(attempt)
		req.EdgeOpenings = scaledOpenings(entranceRuns, bounds, req.Width, req.Height)

		sub, err = s.Generate(&req, req.Seed)
		if err == nil {
			break
		}
	}
	if err != nil {
		return dgerr.Wrap("template.StampRoom", dgerr.GenerationFailed, err)
	}

	if def.TemplateRequiredOpeningMatches > 0 {
		matches := sub.QueryEdgeOpenings(def.TemplateOpeningQuery, nil)
		if int32(len(matches)) < def.TemplateRequiredOpeningMatches {
			return dgerr.New("template.StampRoom", dgerr.GenerationFailed)
		}
	}

	resampleIntoRoom(host, bounds, sub)
	restoreConnectivity(host, bounds, entranceRuns, tmpl.Request.Algorithm)
	return nil
}

func hasNestedTemplate(req *tilemap.GenerateRequest) bool {
	for _, def := range req.RoomTypes.Definitions {
		if def.TemplateMapPath != "" {
			return true
		}
	}
	return req.RoomTypes.Policy.UntypedTemplateMapPath != ""
}

// effectiveScale folds out the product of every SCALE method recorded in the
// template's post-process snapshot.
func effectiveScale(req *tilemap.GenerateRequest) int32 {
	scale := int32(1)
	for _, m := range req.Process.Methods {
		if m.Type == tilemap.ProcessScale && m.Scale.Factor > 0 {
			scale *= m.Scale.Factor
		}
	}
	if scale < 1 {
		scale = 1
	}
	return scale
}

func ceilDiv(a, b int32) int32 {
	if b <= 0 {
		b = 1
	}
	return (a + b - 1) / b
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

type entranceRun struct {
	side       tilemap.Side
	start, end int32
}

// detectEntranceRuns scans the host room's perimeter for walkable runs
// (corridor connections entering the room) so the sub-generator can be asked
// to leave matching openings along its own border.
func detectEntranceRuns(host *tilemap.Map, bounds tilemap.Rect) []entranceRun {
	var runs []entranceRun
	scan := func(side tilemap.Side, lo, hi int32, pointAt func(c int32) (int32, int32)) {
		var run *entranceRun
		flush := func() {
			if run != nil {
				runs = append(runs, *run)
				run = nil
			}
		}
		for c := lo; c < hi; c++ {
			x, y := pointAt(c)
			if host.InBounds(x, y) && host.GetTile(x, y).Walkable() {
				if run == nil {
					run = &entranceRun{side: side, start: c - lo}
				}
				run.end = c - lo
			} else {
				flush()
			}
		}
		flush()
	}
	scan(tilemap.SideNorth, bounds.Left(), bounds.Right(), func(c int32) (int32, int32) { return c, bounds.Top() - 1 })
	scan(tilemap.SideSouth, bounds.Left(), bounds.Right(), func(c int32) (int32, int32) { return c, bounds.Bottom() })
	scan(tilemap.SideWest, bounds.Top(), bounds.Bottom(), func(c int32) (int32, int32) { return bounds.Left() - 1, c })
	scan(tilemap.SideEast, bounds.Top(), bounds.Bottom(), func(c int32) (int32, int32) { return bounds.Right(), c })
	return runs
}

func scaledOpenings(runs []entranceRun, bounds tilemap.Rect, subW, subH int32) []tilemap.EdgeOpeningSpec {
	specs := make([]tilemap.EdgeOpeningSpec, 0, len(runs))
	for _, r := range runs {
		var span int32
		switch r.side {
		case tilemap.SideNorth, tilemap.SideSouth:
			span = bounds.Width
		default:
			span = bounds.Height
		}
		var dim int32
		switch r.side {
		case tilemap.SideNorth, tilemap.SideSouth:
			dim = subW
		default:
			dim = subH
		}
		start := scaleCoord(r.start, span, dim)
		end := scaleCoord(r.end, span, dim)
		specs = append(specs, tilemap.EdgeOpeningSpec{Side: r.side, Start: start, End: end})
	}
	return specs
}

func scaleCoord(c, fromSpan, toSpan int32) int32 {
	if fromSpan <= 0 {
		return 0
	}
	return tilemap.ClampInt32(int32(math.Round(float64(c)*float64(toSpan)/float64(fromSpan))), 0, toSpan-1)
}

// resampleIntoRoom implements the "preserve walkable shape" resample: every
// host tile within bounds is looked up in sub via centered nearest-neighbor
// on both axes and written FLOOR if the sampled tile is walkable, else WALL.
func resampleIntoRoom(host *tilemap.Map, bounds tilemap.Rect, sub *tilemap.Map) {
	for y := int32(0); y < bounds.Height; y++ {
		for x := int32(0); x < bounds.Width; x++ {
			sx := nearestNeighbor(x, bounds.Width, sub.Width)
			sy := nearestNeighbor(y, bounds.Height, sub.Height)
			t := tilemap.Wall
			if sub.InBounds(sx, sy) && sub.GetTile(sx, sy).Walkable() {
				t = tilemap.Floor
			}
			host.SetTile(bounds.X+x, bounds.Y+y, t)
		}
	}
}

func nearestNeighbor(coord, fromSpan, toSpan int32) int32 {
	if fromSpan <= 0 {
		return 0
	}
	centered := (float64(coord)+0.5)*float64(toSpan)/float64(fromSpan) - 0.5
	return tilemap.ClampInt32(int32(math.Round(centered)), 0, toSpan-1)
}

// restoreConnectivity re-establishes each detected entrance run against the
// stamped interior. Cave-like templates get an L-carve from the run's
// midpoint to the nearest walkable interior cell; ROOMS_AND_MAZES defers
// entrance placement to the sub-generator's own opening carving, so no
// further carving happens here.
func restoreConnectivity(host *tilemap.Map, bounds tilemap.Rect, runs []entranceRun, algo tilemap.Algorithm) {
	if algo == tilemap.AlgorithmRoomsAndMazes {
		return
	}
	for _, r := range runs {
		ex, ey := runMidpoint(bounds, r)
		ix, iy := nearestInteriorWalkable(host, bounds, ex, ey)
		if ix < 0 {
			continue
		}
		tilemap.CarveLPath(host, ex, ey, ix, iy, 1, tilemap.Floor, tilemap.RoutingHorizontalFirst, true)
	}
}

func runMidpoint(bounds tilemap.Rect, r entranceRun) (int32, int32) {
	mid := (r.start + r.end) / 2
	switch r.side {
	case tilemap.SideNorth:
		return bounds.Left() + mid, bounds.Top()
	case tilemap.SideSouth:
		return bounds.Left() + mid, bounds.Bottom() - 1
	case tilemap.SideWest:
		return bounds.Left(), bounds.Top() + mid
	default:
		return bounds.Right() - 1, bounds.Top() + mid
	}
}

func nearestInteriorWalkable(host *tilemap.Map, bounds tilemap.Rect, fromX, fromY int32) (int32, int32) {
	best := int32(math.MaxInt32)
	bx, by := int32(-1), int32(-1)
	for y := bounds.Top(); y < bounds.Bottom(); y++ {
		for x := bounds.Left(); x < bounds.Right(); x++ {
			if !host.GetTile(x, y).Walkable() {
				continue
			}
			d := absInt32(x-fromX) + absInt32(y-fromY)
			if d < best {
				best = d
				bx, by = x, y
			}
		}
	}
	return bx, by
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
