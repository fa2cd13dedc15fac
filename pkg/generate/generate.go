package generate

import (
	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// Generate dispatches to the base generator named by req.Algorithm, writing
// into an already-Init'd m. m must be filled with tilemap.Wall on entry; a
// ROOM_LIKE algorithm is also responsible for populating m.Rooms/Corridors
// and calling m.BuildAdjacencyFromCorridors before returning.
func Generate(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	switch req.Algorithm {
	case tilemap.AlgorithmRoomsAndCorridors:
		return genRoomsAndCorridors(req, m, r)
	case tilemap.AlgorithmOrganicCave:
		return genOrganicCave(req, m, r)
	case tilemap.AlgorithmBSPTree:
		return genBSPTree(req, m, r)
	case tilemap.AlgorithmDrunkardsWalk:
		return genDrunkardsWalk(req, m, r)
	case tilemap.AlgorithmCellularAutomata:
		return genCellularAutomata(req, m, r)
	case tilemap.AlgorithmValueNoise:
		return genValueNoise(req, m, r)
	case tilemap.AlgorithmSimplexNoise:
		return genSimplexNoise(req, m, r)
	case tilemap.AlgorithmRoomsAndMazes:
		return genRoomsAndMazes(req, m, r)
	case tilemap.AlgorithmRoomGraph:
		return genRoomGraph(req, m, r)
	case tilemap.AlgorithmWormCaves:
		return genWormCaves(req, m, r)
	default:
		return dgerr.New("generate.Generate", dgerr.InvalidArgument)
	}
}

// placedRoom is a candidate room position during incremental placement.
type placedRoom struct {
	bounds tilemap.Rect
}

func overlapsAny(candidate tilemap.Rect, placed []placedRoom, forbidden []tilemap.Rect, pad int32) bool {
	for _, p := range placed {
		if candidate.OverlapsPadded(p.bounds, pad) {
			return true
		}
	}
	for _, f := range forbidden {
		if candidate.Overlaps(f) {
			return true
		}
	}
	return false
}

// placeNonOverlappingRooms attempts maxAttempts random placements of rooms
// sized within [minSize,maxSize]^2, padded by pad, rejecting forbidden and
// mutual overlap; it returns every room that was successfully placed, in
// placement order, stopping early once maxRooms have landed.
func placeNonOverlappingRooms(m *tilemap.Map, r *rng.RNG, minRooms, maxRooms, minSize, maxSize, maxAttempts, pad int32, forbidden []tilemap.Rect) []placedRoom {
	target := r.RangeInt(int(minRooms), int(maxRooms))
	placed := make([]placedRoom, 0, target)
	for attempt := int32(0); attempt < maxAttempts && int32(len(placed)) < int32(target); attempt++ {
		w := r.Range32(minSize, maxSize)
		h := r.Range32(minSize, maxSize)
		maxX := m.Width - w - 1
		maxY := m.Height - h - 1
		if maxX < 1 || maxY < 1 {
			continue
		}
		x := r.Range32(1, maxX)
		y := r.Range32(1, maxY)
		cand := tilemap.Rect{X: x, Y: y, Width: w, Height: h}
		if overlapsAny(cand, placed, forbidden, pad) {
			continue
		}
		placed = append(placed, placedRoom{bounds: cand})
	}
	return placed
}

func carveRoom(m *tilemap.Map, bounds tilemap.Rect) {
	for y := bounds.Top(); y < bounds.Bottom(); y++ {
		for x := bounds.Left(); x < bounds.Right(); x++ {
			m.SetTile(x, y, tilemap.Floor)
		}
	}
}

func oddClamp(v, lo, hi int32) int32 {
	v = tilemap.ClampInt32(v, lo, hi)
	if v%2 == 0 {
		v++
	}
	if v > hi {
		v -= 2
	}
	if v < lo {
		v = lo
	}
	return v
}

func connectRoomsInOrder(m *tilemap.Map, r *rng.RNG, rooms []placedRoom, corridorWidth int32, routing tilemap.CorridorRouting) {
	for i := 1; i < len(rooms); i++ {
		a := rooms[i-1].bounds
		b := rooms[i].bounds
		horizontalFirst := r.Bool(50)
		tilemap.CarveLPath(m, a.CenterX(), a.CenterY(), b.CenterX(), b.CenterY(), corridorWidth, tilemap.Floor, routing, horizontalFirst)
	}
}

func registerRoomsAndChainCorridors(m *tilemap.Map, rooms []placedRoom, corridorWidth int32) {
	ids := make([]int32, len(rooms))
	for i, pr := range rooms {
		ids[i] = m.AddRoom(pr.bounds, 0)
	}
	for i := 1; i < len(ids); i++ {
		length := manhattanCenterDistance(rooms[i-1].bounds, rooms[i].bounds)
		m.AddCorridor(ids[i-1], ids[i], corridorWidth, length)
	}
	m.BuildAdjacencyFromCorridors()
}

func manhattanCenterDistance(a, b tilemap.Rect) int32 {
	dx := a.CenterX() - b.CenterX()
	if dx < 0 {
		dx = -dx
	}
	dy := a.CenterY() - b.CenterY()
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func genFailed(op string) error {
	return dgerr.New(op, dgerr.GenerationFailed)
}
