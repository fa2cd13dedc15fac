package roomtypes

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

const (
	belowMinBonus    = 2e11
	belowTargetBonus = 1e11
)

type features struct {
	area           int32
	degree         int32
	borderDistance int32
	graphDepth     int32 // -1 means infinite/disconnected
}

func roomVID(i int) string { return fmt.Sprintf("room-%d", i) }

func computeFeatures(m *tilemap.Map) []features {
	n := len(m.Rooms)
	feats := make([]features, n)
	for i, room := range m.Rooms {
		b := room.Bounds
		feats[i].area = b.Width * b.Height
		feats[i].borderDistance = minInt32(b.X, b.Y, m.Width-b.Right(), m.Height-b.Bottom())
	}

	if n == 0 {
		return feats
	}
	g := core.NewGraph()
	for i := range m.Rooms {
		_ = g.AddVertex(roomVID(i))
	}
	for i := range m.Rooms {
		for _, nb := range m.Neighbors(int32(i)) {
			if int(nb.RoomID) > i {
				_, _ = g.AddEdge(roomVID(i), roomVID(int(nb.RoomID)), 1)
			}
		}
		if int(m.RoomAdjacency[i].Count) > 0 {
			feats[i].degree = int32(m.RoomAdjacency[i].Count)
		}
	}

	res, err := bfs.BFS(g, roomVID(0))
	for i := range feats {
		feats[i].graphDepth = -1
		if err == nil {
			if d, ok := res.Depth[roomVID(i)]; ok {
				feats[i].graphDepth = int32(d)
			}
		}
	}
	return feats
}

func minInt32(vals ...int32) int32 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func inRange(v, lo, hi int32) bool {
	if v < lo {
		return false
	}
	if hi < 0 {
		return true
	}
	return v <= hi
}

func eligible(f features, c tilemap.RoomTypeConstraints) bool {
	if !inRange(f.area, c.AreaMin, c.AreaMax) {
		return false
	}
	if !inRange(f.degree, c.DegreeMin, c.DegreeMax) {
		return false
	}
	if !inRange(f.borderDistance, c.BorderDistanceMin, c.BorderDistanceMax) {
		return false
	}
	if f.graphDepth < 0 {
		return c.GraphDepthMax < 0 && c.GraphDepthMin <= 0
	}
	return inRange(f.graphDepth, c.GraphDepthMin, c.GraphDepthMax)
}

func baseScore(f features, pref tilemap.RoomTypePreferences) float64 {
	return float64(pref.Weight)*1e6 +
		float64(pref.LargerRoomBias)*float64(f.area) +
		float64(pref.HigherDegreeBias)*float64(f.degree)*1e3 +
		float64(pref.BorderDistanceBias)*float64(f.borderDistance)*1e3
}

// Result is the outcome of Assign: the quota diagnostics spec §4.7 requires.
// The per-room type assignment itself is written into m.Rooms[i].TypeID.
type Result struct {
	Quotas []tilemap.RoomTypeQuotaDiagnostic
}

// Assign applies the room-type assignment algorithm to every room in m,
// writing m.Rooms[i].TypeID in place and appending quota diagnostics to
// m.Diagnostics.TypeQuotas.
func Assign(cfg *tilemap.RoomTypeAssignmentConfig, m *tilemap.Map, r *rng.RNG) (Result, error) {
	n := len(m.Rooms)
	for i := range m.Rooms {
		m.Rooms[i].TypeID = tilemap.UnassignedType
	}
	if n == 0 || len(cfg.Definitions) == 0 {
		return Result{}, nil
	}

	feats := computeFeatures(m)

	var types []*typeState
	for _, def := range cfg.Definitions {
		if !def.Enabled {
			continue
		}
		ts := &typeState{def: def}
		for i := 0; i < n; i++ {
			if eligible(feats[i], def.Constraints) {
				ts.eligible = append(ts.eligible, i)
			}
		}
		types = append(types, ts)
	}

	if cfg.Policy.StrictMode {
		if err := checkStrictFeasibility(types, n, cfg.Policy.AllowUntypedRooms); err != nil {
			return Result{}, err
		}
	}

	sort.SliceStable(types, func(i, j int) bool {
		si := len(types[i].eligible) - int(types[i].def.MinCount)
		sj := len(types[j].eligible) - int(types[j].def.MinCount)
		if si != sj {
			return si < sj
		}
		return types[i].def.TypeID < types[j].def.TypeID
	})

	assignedRoom := make([]bool, n)
	assignRoom := func(ts *typeState, room int) {
		m.Rooms[room].TypeID = ts.def.TypeID
		ts.assigned = append(ts.assigned, room)
		assignedRoom[room] = true
	}

	// Minimum phase.
	for _, ts := range types {
		for int32(len(ts.assigned)) < ts.def.MinCount {
			candidate, ok := pickHighestScoring(ts, feats, assignedRoom, true, r)
			if !ok {
				if cfg.Policy.StrictMode {
					return Result{}, dgerr.New("roomtypes.Assign", dgerr.GenerationFailed)
				}
				break
			}
			assignRoom(ts, candidate)
		}
	}

	// Fill phase, insertion order over still-unassigned rooms.
	for room := 0; room < n; room++ {
		if assignedRoom[room] {
			continue
		}
		best := pickBestTypeForRoom(types, feats[room], room)
		if best != nil {
			assignRoom(best, room)
		}
	}

	// Untyped fallback.
	if !cfg.Policy.AllowUntypedRooms {
		var fallback *typeState
		for _, ts := range types {
			if ts.def.TypeID == cfg.Policy.DefaultTypeID {
				fallback = ts
				break
			}
		}
		for room := 0; room < n; room++ {
			if assignedRoom[room] {
				continue
			}
			if fallback == nil {
				if cfg.Policy.StrictMode {
					return Result{}, dgerr.New("roomtypes.Assign", dgerr.GenerationFailed)
				}
				continue
			}
			assignRoom(fallback, room)
		}
	}

	quotas := make([]tilemap.RoomTypeQuotaDiagnostic, 0, len(types))
	for _, ts := range types {
		count := uint64(len(ts.assigned))
		q := tilemap.RoomTypeQuotaDiagnostic{
			TypeID:          ts.def.TypeID,
			Enabled:         ts.def.Enabled,
			Min:             ts.def.MinCount,
			Max:             ts.def.MaxCount,
			Target:          ts.def.TargetCount,
			AssignedCount:   count,
			MinSatisfied:    int32(count) >= ts.def.MinCount,
			MaxSatisfied:    ts.def.MaxCount < 0 || int32(count) <= ts.def.MaxCount,
			TargetSatisfied: ts.def.TargetCount < 0 || int32(count) == ts.def.TargetCount,
		}
		quotas = append(quotas, q)
		if cfg.Policy.StrictMode && (!q.MinSatisfied || !q.MaxSatisfied) {
			return Result{}, dgerr.New("roomtypes.Assign", dgerr.GenerationFailed)
		}
	}
	m.Diagnostics.TypeQuotas = append(m.Diagnostics.TypeQuotas, quotas...)
	return Result{Quotas: quotas}, nil
}

func checkStrictFeasibility(types []*typeState, roomCount int, allowUntyped bool) error {
	var totalMin int32
	boundedMaxSum := int64(0)
	allBounded := true
	eligibleForAny := make([]bool, roomCount)
	for _, ts := range types {
		if int32(len(ts.eligible)) < ts.def.MinCount {
			return dgerr.New("roomtypes.checkStrictFeasibility", dgerr.GenerationFailed)
		}
		totalMin += ts.def.MinCount
		if ts.def.MaxCount < 0 {
			allBounded = false
		} else {
			boundedMaxSum += int64(ts.def.MaxCount)
		}
		for _, room := range ts.eligible {
			eligibleForAny[room] = true
		}
	}
	if int(totalMin) > roomCount {
		return dgerr.New("roomtypes.checkStrictFeasibility", dgerr.GenerationFailed)
	}
	if !allowUntyped {
		for _, ok := range eligibleForAny {
			if !ok {
				return dgerr.New("roomtypes.checkStrictFeasibility", dgerr.GenerationFailed)
			}
		}
	}
	if allBounded && boundedMaxSum < int64(roomCount) {
		return dgerr.New("roomtypes.checkStrictFeasibility", dgerr.GenerationFailed)
	}
	return nil
}

type typeState struct {
	def      tilemap.RoomTypeDefinition
	eligible []int
	assigned []int
}

func pickHighestScoring(ts *typeState, feats []features, assignedRoom []bool, minPhase bool, r *rng.RNG) (int, bool) {
	bestScore := math.Inf(-1)
	var tied []int
	for _, room := range ts.eligible {
		if assignedRoom[room] {
			continue
		}
		score := baseScore(feats[room], ts.def.Preferences)
		if minPhase {
			score += belowMinBonus
		} else if ts.def.TargetCount >= 0 && int32(len(ts.assigned)) < ts.def.TargetCount {
			score += belowTargetBonus
		}
		if score > bestScore {
			bestScore = score
			tied = []int{room}
		} else if score == bestScore {
			tied = append(tied, room)
		}
	}
	if len(tied) == 0 {
		return 0, false
	}
	if len(tied) == 1 {
		return tied[0], true
	}
	return tied[r.RangeInt(0, len(tied)-1)], true
}

func pickBestTypeForRoom(types []*typeState, f features, room int) *typeState {
	var best *typeState
	bestScore := math.Inf(-1)
	for _, ts := range types {
		if !containsInt(ts.eligible, room) {
			continue
		}
		if ts.def.MaxCount >= 0 && int32(len(ts.assigned)) >= ts.def.MaxCount {
			continue
		}
		score := baseScore(f, ts.def.Preferences)
		if ts.def.TargetCount >= 0 && int32(len(ts.assigned)) < ts.def.TargetCount {
			score += belowTargetBonus
		}
		if score > bestScore {
			bestScore = score
			best = ts
		}
	}
	return best
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
