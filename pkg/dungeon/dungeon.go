package dungeon

import (
	"path/filepath"

	"github.com/dshills/dungeoneer-go/pkg/connectivity"
	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/generate"
	"github.com/dshills/dungeoneer-go/pkg/process"
	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/roomtypes"
	"github.com/dshills/dungeoneer-go/pkg/template"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
	"github.com/dshills/dungeoneer-go/pkg/validation"
)

// Generator drives the orchestrator state machine. The zero value has no
// template loader wired in; a request whose room types name a
// template_map_path fails with InvalidArgument until one is supplied, the
// same way the teacher's DefaultGenerator requires SetValidator before use.
type Generator struct {
	// LoadTemplate resolves a template_map_path to a persisted Map. Hosts
	// wire in pkg/persist's reader here to avoid this package importing it.
	LoadTemplate template.LoadFunc
}

// NewGenerator returns a Generator using loadTemplate to resolve room-type
// templates. loadTemplate may be nil if the request never names one.
func NewGenerator(loadTemplate template.LoadFunc) *Generator {
	return &Generator{LoadTemplate: loadTemplate}
}

// Generate runs the full twelve-state pipeline (spec §4.10) for cfg.Request
// and returns the finished map. On a GENERATION_FAILED outcome it retries
// with seed+attempt_index up to Constraints.MaxGenerationAttempts (spec §7);
// every other status fails the call immediately.
func (g *Generator) Generate(cfg *Config) (*tilemap.Map, error) {
	if err := validation.ValidateRequest(&cfg.Request, tilemap.PublicMinSize); err != nil {
		return nil, err
	}
	gen := g
	if cfg.TemplateRoot != "" && g.LoadTemplate != nil {
		load, root := g.LoadTemplate, cfg.TemplateRoot
		gen = &Generator{LoadTemplate: func(path string) (*tilemap.Map, error) {
			return load(filepath.Join(root, path))
		}}
	}
	return gen.generateWithRetry(&cfg.Request)
}

func (g *Generator) generateWithRetry(req *tilemap.GenerateRequest) (*tilemap.Map, error) {
	baseSeed := req.Seed
	attempts := req.Constraints.MaxGenerationAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := int32(0); attempt < attempts; attempt++ {
		r := *req
		r.Seed = baseSeed + uint64(attempt)
		m, err := g.generateOnce(&r)
		if err == nil {
			m.Metrics.GenerationAttempts = uint64(attempt) + 1
			return m, nil
		}
		lastErr = err
		if dgerr.StatusOf(err) != dgerr.GenerationFailed {
			return nil, err
		}
	}
	return nil, lastErr
}

// subGenerate adapts Generate to template.GenerateFunc for sub-map
// generation during room-template stamping (spec §4.8). It validates
// against TemplateMinSize rather than PublicMinSize, since a stamped room
// may be smaller than a standalone map.
func (g *Generator) subGenerate(req *tilemap.GenerateRequest, seed uint64) (*tilemap.Map, error) {
	r := *req
	r.Seed = seed
	if err := validation.ValidateRequest(&r, tilemap.TemplateMinSize); err != nil {
		return nil, err
	}
	return g.generateWithRetry(&r)
}

// generateOnce runs a single attempt of the pipeline at req.Seed, releasing
// the partial map on any failure (deep destruction, spec §4.10).
func (g *Generator) generateOnce(req *tilemap.GenerateRequest) (*tilemap.Map, error) {
	// INIT_EMPTY
	m := &tilemap.Map{}
	m.Init(req.Width, req.Height, tilemap.Wall)

	r := rng.New(req.Seed)

	// BASE_GENERATED
	if err := generate.Generate(req, m, r); err != nil {
		m.Destroy()
		return nil, err
	}

	// METADATA_COMPUTED
	if err := recomputeMetadata(m, req); err != nil {
		m.Destroy()
		return nil, err
	}

	// TYPES_ASSIGNED
	if _, err := roomtypes.Assign(&req.RoomTypes, m, r); err != nil {
		m.Destroy()
		return nil, err
	}

	// TEMPLATES_APPLIED
	if needsStamping(&req.RoomTypes) {
		if g.LoadTemplate == nil {
			m.Destroy()
			return nil, dgerr.New("dungeon.Generate", dgerr.InvalidArgument)
		}
		stamper := &template.Stamper{Generate: g.subGenerate, LoadTemplate: g.LoadTemplate}
		guard := &template.DepthGuard{}
		if err := stamper.StampAll(&req.RoomTypes, m, req.Seed, guard); err != nil {
			m.Destroy()
			return nil, err
		}
	}

	// POST_PROCESSED
	if err := process.Run(&req.Process, m, r); err != nil {
		m.Destroy()
		return nil, err
	}

	// OUTER_WALLED
	tilemap.PaintOuterWalls(m)

	// EDGES_CARVED
	carveEdgeOpenings(m, req.EdgeOpenings)

	// METADATA_RECOMPUTED
	if err := recomputeMetadata(m, req); err != nil {
		m.Destroy()
		return nil, err
	}

	// EDGE_ROLES_SET
	if err := roomtypes.AssignRoles(&req.Constraints, m); err != nil {
		m.Destroy()
		return nil, err
	}
	setEdgeRoleMetrics(m)

	// SNAPSHOTTED
	m.Request = *req

	report := validation.AcceptanceTest(m, &req.Constraints)
	if !report.Passed {
		m.Destroy()
		return nil, dgerr.New("dungeon.Generate", dgerr.GenerationFailed)
	}

	// RETURNED
	return m, nil
}

func needsStamping(cfg *tilemap.RoomTypeAssignmentConfig) bool {
	if cfg.Policy.UntypedTemplateMapPath != "" {
		return true
	}
	for _, d := range cfg.Definitions {
		if d.TemplateMapPath != "" {
			return true
		}
	}
	return false
}

// recomputeMetadata refreshes the scalar Metrics fields a pipeline stage
// does not already maintain incrementally: walkable/wall tile counts,
// top-down connectivity, and the request identity fields.
func recomputeMetadata(m *tilemap.Map, req *tilemap.GenerateRequest) error {
	m.RecomputeWalkableMetrics()
	rep, err := connectivity.AnalyzeTopDown(m)
	if err != nil {
		return dgerr.Wrap("dungeon.recomputeMetadata", dgerr.GenerationFailed, err)
	}
	m.Metrics.ConnectedComponentCount = uint64(rep.ComponentCount)
	m.Metrics.LargestComponentSize = uint64(rep.LargestComponentSize)
	m.Metrics.ConnectedFloor = rep.Connected
	m.Metrics.Seed = req.Seed
	m.Metrics.AlgorithmID = req.Algorithm
	m.Metrics.GenerationClass = tilemap.AlgorithmClass(req.Algorithm)

	var corridorLen uint64
	for _, c := range m.Corridors {
		corridorLen += uint64(c.Length)
	}
	m.Metrics.CorridorTotalLength = corridorLen
	m.RecomputeRoleCounts()
	return nil
}

// carveEdgeOpenings punches every requested opening through the just-painted
// outer wall and registers the corresponding EdgeOpening record.
func carveEdgeOpenings(m *tilemap.Map, specs []tilemap.EdgeOpeningSpec) {
	for _, spec := range specs {
		id := int32(len(m.EdgeOpenings))
		length := spec.End - spec.Start + 1
		mid := (spec.Start + spec.End) / 2

		var edge, inward, normal tilemap.Point
		switch spec.Side {
		case tilemap.SideNorth:
			for x := spec.Start; x <= spec.End; x++ {
				m.SetTile(x, 0, tilemap.Floor)
			}
			edge, inward, normal = tilemap.Point{X: mid, Y: 0}, tilemap.Point{X: mid, Y: 1}, tilemap.Point{X: 0, Y: -1}
		case tilemap.SideSouth:
			y := m.Height - 1
			for x := spec.Start; x <= spec.End; x++ {
				m.SetTile(x, y, tilemap.Floor)
			}
			edge, inward, normal = tilemap.Point{X: mid, Y: y}, tilemap.Point{X: mid, Y: y - 1}, tilemap.Point{X: 0, Y: 1}
		case tilemap.SideWest:
			for y := spec.Start; y <= spec.End; y++ {
				m.SetTile(0, y, tilemap.Floor)
			}
			edge, inward, normal = tilemap.Point{X: 0, Y: mid}, tilemap.Point{X: 1, Y: mid}, tilemap.Point{X: -1, Y: 0}
		case tilemap.SideEast:
			x := m.Width - 1
			for y := spec.Start; y <= spec.End; y++ {
				m.SetTile(x, y, tilemap.Floor)
			}
			edge, inward, normal = tilemap.Point{X: x, Y: mid}, tilemap.Point{X: x - 1, Y: mid}, tilemap.Point{X: 1, Y: 0}
		}

		m.EdgeOpenings = append(m.EdgeOpenings, tilemap.EdgeOpening{
			ID:          id,
			Side:        spec.Side,
			Start:       spec.Start,
			End:         spec.End,
			Length:      length,
			EdgeTile:    edge,
			InwardTile:  inward,
			Normal:      normal,
			ComponentID: tilemap.NoComponent,
			Role:        spec.Role,
		})
	}
}

// setEdgeRoleMetrics derives the primary entrance/exit opening indices and
// the entrance-exit room graph distance now that every room role is final.
func setEdgeRoleMetrics(m *tilemap.Map) {
	m.Metrics.PrimaryEntranceOpening = -1
	m.Metrics.PrimaryExitOpening = -1
	for i, o := range m.EdgeOpenings {
		if o.Role == tilemap.RoleEntrance && m.Metrics.PrimaryEntranceOpening < 0 {
			m.Metrics.PrimaryEntranceOpening = int32(i)
		}
		if o.Role == tilemap.RoleExit && m.Metrics.PrimaryExitOpening < 0 {
			m.Metrics.PrimaryExitOpening = int32(i)
		}
	}

	entrance, exit := int32(-1), int32(-1)
	for i, room := range m.Rooms {
		switch room.Role {
		case tilemap.RoleEntrance:
			entrance = int32(i)
		case tilemap.RoleExit:
			exit = int32(i)
		}
	}
	m.Metrics.EntranceExitDistance = roomGraphDistance(m, entrance, exit)
}

// roomGraphDistance returns the BFS hop distance between two rooms over the
// corridor adjacency graph, or -1 if either room is absent or unreachable.
func roomGraphDistance(m *tilemap.Map, from, to int32) int32 {
	if from < 0 || to < 0 || int(from) >= len(m.Rooms) || int(to) >= len(m.Rooms) {
		return -1
	}
	if from == to {
		return 0
	}
	visited := make([]bool, len(m.Rooms))
	visited[from] = true
	dist := make([]int32, len(m.Rooms))
	queue := []int32{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range m.Neighbors(cur) {
			if visited[nb.RoomID] {
				continue
			}
			visited[nb.RoomID] = true
			dist[nb.RoomID] = dist[cur] + 1
			if nb.RoomID == to {
				return dist[nb.RoomID]
			}
			queue = append(queue, nb.RoomID)
		}
	}
	return -1
}
