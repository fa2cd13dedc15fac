package persist

import (
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// encodeSnapshot writes the generation_request_snapshot sub-record (§6.3).
// Save always emits CurrentVersion, so this only ever needs to write the
// present-day (v>=6 tagged process, v>=3 typed rooms) shape; Decode is the
// half that has to understand every earlier shape a reader might hand it.
func encodeSnapshot(bw *writer, req *tilemap.GenerateRequest) {
	bw.bool(true)
	bw.i32(req.Width)
	bw.i32(req.Height)
	bw.u64(req.Seed)
	bw.i32(int32(req.Algorithm))
	encodeAlgorithmParams(bw, req.Algorithm, &req.Params)

	bw.u64(uint64(len(req.Process.Methods)))
	for _, meth := range req.Process.Methods {
		encodeProcessMethod(bw, &meth)
	}

	bw.u64(uint64(len(req.RoomTypes.Definitions)))
	bw.i32(boolToInt32(req.RoomTypes.Policy.StrictMode))
	bw.i32(boolToInt32(req.RoomTypes.Policy.AllowUntypedRooms))
	bw.u32(req.RoomTypes.Policy.DefaultTypeID)
	for _, def := range req.RoomTypes.Definitions {
		encodeRoomTypeDefinition(bw, &def)
	}
}

func decodeSnapshot(br *reader, version uint32) (tilemap.GenerateRequest, error) {
	var req tilemap.GenerateRequest
	if !br.boolean() {
		return req, nil
	}
	req.Width = br.i32()
	req.Height = br.i32()
	req.Seed = br.u64()
	req.Algorithm = tilemap.Algorithm(br.i32())
	req.Params = decodeAlgorithmParams(br, req.Algorithm)

	if version >= versionTaggedProcess {
		count := br.u64()
		req.Process.Methods = make([]tilemap.ProcessMethod, count)
		for i := range req.Process.Methods {
			req.Process.Methods[i] = decodeProcessMethod(br, version)
		}
	} else if version == versionLegacyProcess {
		req.Process.Methods = decodeLegacyProcess(br)
	}
	req.Process.Enabled = len(req.Process.Methods) > 0

	defCount := br.u64()
	req.RoomTypes.Policy.StrictMode = br.i32() != 0
	req.RoomTypes.Policy.AllowUntypedRooms = br.i32() != 0
	req.RoomTypes.Policy.DefaultTypeID = br.u32()
	req.RoomTypes.Definitions = make([]tilemap.RoomTypeDefinition, defCount)
	for i := range req.RoomTypes.Definitions {
		req.RoomTypes.Definitions[i] = decodeRoomTypeDefinition(br)
	}

	if br.err != nil {
		return req, ioErr("persist.decodeSnapshot", br.err)
	}
	return req, nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// encodeAlgorithmParams writes only the parameter block selected by algo,
// matching the fixed per-algorithm field lists of spec §4.5.
func encodeAlgorithmParams(bw *writer, algo tilemap.Algorithm, p *tilemap.AlgorithmParams) {
	switch algo {
	case tilemap.AlgorithmRoomsAndCorridors:
		c := p.RoomsAndCorridors
		bw.i32(c.MinRooms)
		bw.i32(c.MaxRooms)
		bw.i32(c.RoomMinSize)
		bw.i32(c.RoomMaxSize)
		bw.i32(c.MaxPlacementAttempts)
		bw.i32(c.CorridorWidth)
		bw.i32(int32(c.CorridorRouting))
	case tilemap.AlgorithmOrganicCave:
		c := p.OrganicCave
		bw.i32(c.WalkSteps)
		bw.i32(c.BrushRadius)
		bw.i32(c.SmoothingPasses)
		bw.f64(c.TargetFloorCoverage)
	case tilemap.AlgorithmBSPTree:
		c := p.BSPTree
		bw.i32(c.MinRooms)
		bw.i32(c.MaxRooms)
		bw.i32(c.RoomMinSize)
		bw.i32(c.RoomMaxSize)
	case tilemap.AlgorithmDrunkardsWalk:
		bw.i32(p.DrunkardsWalk.WigglePercent)
	case tilemap.AlgorithmCellularAutomata:
		c := p.CellularAutomata
		bw.i32(c.InitialWallPercent)
		bw.i32(c.SimulationSteps)
		bw.i32(c.WallThreshold)
	case tilemap.AlgorithmValueNoise:
		c := p.ValueNoise
		bw.i32(c.FeatureSize)
		bw.i32(c.Octaves)
		bw.i32(c.PersistencePercent)
		bw.i32(c.FloorThresholdPercent)
	case tilemap.AlgorithmSimplexNoise:
		c := p.SimplexNoise
		bw.i32(c.FeatureSize)
		bw.i32(c.Octaves)
		bw.i32(c.PersistencePercent)
		bw.i32(c.FloorThresholdPercent)
		bw.bool(c.EnsureConnected)
	case tilemap.AlgorithmRoomsAndMazes:
		c := p.RoomsAndMazes
		bw.i32(c.MinRooms)
		bw.i32(c.MaxRooms)
		bw.i32(c.RoomMinSize)
		bw.i32(c.RoomMaxSize)
		bw.i32(c.MazeWigglePercent)
		bw.bool(c.EnsureFullConnectivity)
		bw.i32(c.DeadEndPruneSteps)
	case tilemap.AlgorithmRoomGraph:
		c := p.RoomGraph
		bw.i32(c.MinRooms)
		bw.i32(c.MaxRooms)
		bw.i32(c.RoomMinSize)
		bw.i32(c.RoomMaxSize)
		bw.i32(c.NeighborCandidates)
		bw.i32(c.ExtraConnectionChancePercent)
	case tilemap.AlgorithmWormCaves:
		c := p.WormCaves
		bw.i32(c.WormCount)
		bw.i32(c.WigglePercent)
		bw.i32(c.BranchChancePercent)
		bw.i32(c.TargetFloorPercent)
		bw.i32(c.BrushRadius)
		bw.i32(c.MaxStepsPerWorm)
		bw.bool(c.EnsureConnected)
	}
}

func decodeAlgorithmParams(br *reader, algo tilemap.Algorithm) tilemap.AlgorithmParams {
	var p tilemap.AlgorithmParams
	switch algo {
	case tilemap.AlgorithmRoomsAndCorridors:
		p.RoomsAndCorridors = tilemap.RoomsAndCorridorsParams{
			MinRooms: br.i32(), MaxRooms: br.i32(), RoomMinSize: br.i32(), RoomMaxSize: br.i32(),
			MaxPlacementAttempts: br.i32(), CorridorWidth: br.i32(), CorridorRouting: tilemap.CorridorRouting(br.i32()),
		}
	case tilemap.AlgorithmOrganicCave:
		p.OrganicCave = tilemap.OrganicCaveParams{
			WalkSteps: br.i32(), BrushRadius: br.i32(), SmoothingPasses: br.i32(), TargetFloorCoverage: br.f64(),
		}
	case tilemap.AlgorithmBSPTree:
		p.BSPTree = tilemap.BSPTreeParams{MinRooms: br.i32(), MaxRooms: br.i32(), RoomMinSize: br.i32(), RoomMaxSize: br.i32()}
	case tilemap.AlgorithmDrunkardsWalk:
		p.DrunkardsWalk = tilemap.DrunkardsWalkParams{WigglePercent: br.i32()}
	case tilemap.AlgorithmCellularAutomata:
		p.CellularAutomata = tilemap.CellularAutomataParams{
			InitialWallPercent: br.i32(), SimulationSteps: br.i32(), WallThreshold: br.i32(),
		}
	case tilemap.AlgorithmValueNoise:
		p.ValueNoise = tilemap.ValueNoiseParams{
			FeatureSize: br.i32(), Octaves: br.i32(), PersistencePercent: br.i32(), FloorThresholdPercent: br.i32(),
		}
	case tilemap.AlgorithmSimplexNoise:
		p.SimplexNoise = tilemap.SimplexNoiseParams{
			FeatureSize: br.i32(), Octaves: br.i32(), PersistencePercent: br.i32(), FloorThresholdPercent: br.i32(),
			EnsureConnected: br.boolean(),
		}
	case tilemap.AlgorithmRoomsAndMazes:
		p.RoomsAndMazes = tilemap.RoomsAndMazesParams{
			MinRooms: br.i32(), MaxRooms: br.i32(), RoomMinSize: br.i32(), RoomMaxSize: br.i32(),
			MazeWigglePercent: br.i32(), EnsureFullConnectivity: br.boolean(), DeadEndPruneSteps: br.i32(),
		}
	case tilemap.AlgorithmRoomGraph:
		p.RoomGraph = tilemap.RoomGraphParams{
			MinRooms: br.i32(), MaxRooms: br.i32(), RoomMinSize: br.i32(), RoomMaxSize: br.i32(),
			NeighborCandidates: br.i32(), ExtraConnectionChancePercent: br.i32(),
		}
	case tilemap.AlgorithmWormCaves:
		p.WormCaves = tilemap.WormCavesParams{
			WormCount: br.i32(), WigglePercent: br.i32(), BranchChancePercent: br.i32(), TargetFloorPercent: br.i32(),
			BrushRadius: br.i32(), MaxStepsPerWorm: br.i32(), EnsureConnected: br.boolean(),
		}
	}
	return p
}

// encodeProcessMethod writes the tagged v>=6 method record (§6.3): a type
// tag followed by exactly the fields §4.6 lists for that subtype.
func encodeProcessMethod(bw *writer, m *tilemap.ProcessMethod) {
	bw.i32(int32(m.Type))
	switch m.Type {
	case tilemap.ProcessScale:
		bw.i32(m.Scale.Factor)
	case tilemap.ProcessRoomShape:
		bw.i32(int32(m.RoomShape.Mode))
		bw.i32(m.RoomShape.Organicity)
	case tilemap.ProcessPathSmooth:
		bw.i32(m.PathSmooth.Strength)
		bw.bool(m.PathSmooth.InnerEnabled)
		bw.bool(m.PathSmooth.OuterEnabled)
	case tilemap.ProcessCorridorRoughen:
		bw.i32(m.CorridorRoughen.Strength)
		bw.i32(m.CorridorRoughen.MaxDepth)
		bw.i32(int32(m.CorridorRoughen.Mode))
	}
}

func decodeProcessMethod(br *reader, version uint32) tilemap.ProcessMethod {
	var m tilemap.ProcessMethod
	m.Type = tilemap.ProcessMethodType(br.i32())
	switch m.Type {
	case tilemap.ProcessScale:
		m.Scale.Factor = br.i32()
	case tilemap.ProcessRoomShape:
		m.RoomShape.Mode = tilemap.RoomShapeMode(br.i32())
		m.RoomShape.Organicity = br.i32()
	case tilemap.ProcessPathSmooth:
		m.PathSmooth.Strength = br.i32()
		if version >= versionPathSmoothFlags {
			m.PathSmooth.InnerEnabled = br.boolean()
			m.PathSmooth.OuterEnabled = br.boolean()
		} else {
			m.PathSmooth.InnerEnabled = true
			m.PathSmooth.OuterEnabled = false
		}
	case tilemap.ProcessCorridorRoughen:
		m.CorridorRoughen.Strength = br.i32()
		m.CorridorRoughen.MaxDepth = br.i32()
		m.CorridorRoughen.Mode = tilemap.CorridorRoughenMode(br.i32())
	}
	return m
}

// decodeLegacyProcess reconstructs the v==5 fixed [scale_factor,
// room_shape_mode, room_shape_organicity] triple into the equivalent
// tagged method list, dropping any method left at its zero/no-op value so
// a legacy record with scale_factor==1 and organicity==0 round-trips to an
// empty pipeline rather than two inert steps.
func decodeLegacyProcess(br *reader) []tilemap.ProcessMethod {
	scaleFactor := br.i32()
	roomShapeMode := tilemap.RoomShapeMode(br.i32())
	organicity := br.i32()

	var methods []tilemap.ProcessMethod
	if scaleFactor > 1 {
		methods = append(methods, tilemap.ProcessMethod{Type: tilemap.ProcessScale, Scale: tilemap.ScaleParams{Factor: scaleFactor}})
	}
	if organicity > 0 {
		methods = append(methods, tilemap.ProcessMethod{
			Type:      tilemap.ProcessRoomShape,
			RoomShape: tilemap.RoomShapeParams{Mode: roomShapeMode, Organicity: organicity},
		})
	}
	return methods
}

func encodeRoomTypeDefinition(bw *writer, d *tilemap.RoomTypeDefinition) {
	bw.u32(d.TypeID)
	bw.bool(d.Enabled)
	bw.i32(d.MinCount)
	bw.i32(d.MaxCount)
	bw.i32(d.TargetCount)
	bw.i32(d.Constraints.AreaMin)
	bw.i32(d.Constraints.AreaMax)
	bw.i32(d.Constraints.DegreeMin)
	bw.i32(d.Constraints.DegreeMax)
	bw.i32(d.Constraints.BorderDistanceMin)
	bw.i32(d.Constraints.BorderDistanceMax)
	bw.i32(d.Constraints.GraphDepthMin)
	bw.i32(d.Constraints.GraphDepthMax)
	bw.i32(d.Preferences.Weight)
	bw.i32(d.Preferences.LargerRoomBias)
	bw.i32(d.Preferences.HigherDegreeBias)
	bw.i32(d.Preferences.BorderDistanceBias)
	bw.str(d.TemplateMapPath)
	bw.i32(d.TemplateRequiredOpeningMatches)
}

func decodeRoomTypeDefinition(br *reader) tilemap.RoomTypeDefinition {
	var d tilemap.RoomTypeDefinition
	d.TypeID = br.u32()
	d.Enabled = br.boolean()
	d.MinCount = br.i32()
	d.MaxCount = br.i32()
	d.TargetCount = br.i32()
	d.Constraints.AreaMin = br.i32()
	d.Constraints.AreaMax = br.i32()
	d.Constraints.DegreeMin = br.i32()
	d.Constraints.DegreeMax = br.i32()
	d.Constraints.BorderDistanceMin = br.i32()
	d.Constraints.BorderDistanceMax = br.i32()
	d.Constraints.GraphDepthMin = br.i32()
	d.Constraints.GraphDepthMax = br.i32()
	d.Preferences.Weight = br.i32()
	d.Preferences.LargerRoomBias = br.i32()
	d.Preferences.HigherDegreeBias = br.i32()
	d.Preferences.BorderDistanceBias = br.i32()
	d.TemplateMapPath = br.str()
	d.TemplateRequiredOpeningMatches = br.i32()
	d.TemplateOpeningQuery = tilemap.DefaultEdgeOpeningQuery()
	return d
}
