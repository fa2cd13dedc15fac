package roomtypes

import (
	"math"

	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// AssignRoles picks one room for each special role (entrance, exit, boss,
// treasure, shop) while unassigned reachable rooms remain; no role can be
// switched off. The entrance/exit pair is chosen first, maximizing pairwise
// graph distance over all room pairs; EntranceWeights and ExitWeights are not
// consulted. Boss, treasure and shop are then filled in that order by the
// distance/degree/leaf score of the original implementation's
// dg_role_placement_weights_t (SPEC_FULL.md §3), using BossWeights,
// TreasureWeights and ShopWeights with distance measured from the entrance.
// A room already holding a role is never reconsidered for another one.
func AssignRoles(cons *tilemap.Constraints, m *tilemap.Map) error {
	n := len(m.Rooms)
	if n == 0 {
		return nil
	}
	for i := range m.Rooms {
		m.Rooms[i].Role = tilemap.RoleNone
	}

	entranceRoom, exitRoom := pickEntranceExitPair(m)
	if entranceRoom < 0 {
		return nil
	}
	m.Rooms[entranceRoom].Role = tilemap.RoleEntrance
	if exitRoom >= 0 {
		m.Rooms[exitRoom].Role = tilemap.RoleExit
	}

	depth := graphDistanceFrom(m, entranceRoom)

	assignByWeight(m, depth, tilemap.RoleBoss, cons.BossWeights)
	assignByWeight(m, depth, tilemap.RoleTreasure, cons.TreasureWeights)
	assignByWeight(m, depth, tilemap.RoleShop, cons.ShopWeights)

	m.RecomputeRoleCounts()
	return nil
}

// pickEntranceExitPair returns the room pair with the largest graph distance
// between them (the room graph's diameter pair), tie-broken by lowest room
// id pair in iteration order. With a single room, or no reachable pair, the
// exit index is -1.
func pickEntranceExitPair(m *tilemap.Map) (entrance, exit int) {
	n := len(m.Rooms)
	if n == 0 {
		return -1, -1
	}
	if n == 1 {
		return 0, -1
	}
	entrance, exit = 0, -1
	var bestDist int32 = -1
	for i := 0; i < n; i++ {
		dist := graphDistanceFrom(m, i)
		for j := 0; j < n; j++ {
			if j == i || dist[j] < 0 {
				continue
			}
			if dist[j] > bestDist {
				bestDist = dist[j]
				entrance, exit = i, j
			}
		}
	}
	return entrance, exit
}

// graphDistanceFrom returns each room's corridor-hop distance from start, or
// -1 if unreachable.
func graphDistanceFrom(m *tilemap.Map, start int) []int32 {
	n := len(m.Rooms)
	dist := make([]int32, n)
	for i := range dist {
		dist[i] = -1
	}
	if start < 0 || start >= n || len(m.RoomAdjacency) != n {
		return dist
	}
	dist[start] = 0
	queue := []int32{int32(start)}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range m.Neighbors(cur) {
			if dist[nb.RoomID] >= 0 {
				continue
			}
			dist[nb.RoomID] = dist[cur] + 1
			queue = append(queue, nb.RoomID)
		}
	}
	return dist
}

func isLeaf(m *tilemap.Map, room int) bool {
	if room >= len(m.RoomAdjacency) {
		return false
	}
	return m.RoomAdjacency[room].Count == 1
}

// assignByWeight scores every unassigned, reachable room for role using
// score = distanceWeight*graphDistance + degreeWeight*degree + leafBonus (if
// the room is a leaf of the room graph), and assigns the role to the winner.
func assignByWeight(m *tilemap.Map, depth []int32, role tilemap.RoomRole, weights tilemap.RolePlacementWeights) {
	best := -1
	bestScore := math.Inf(-1)
	for i, room := range m.Rooms {
		if room.Role != tilemap.RoleNone {
			continue
		}
		if depth[i] < 0 {
			continue
		}
		degree := int32(0)
		if i < len(m.RoomAdjacency) {
			degree = int32(m.RoomAdjacency[i].Count)
		}
		score := float64(weights.DistanceWeight)*float64(depth[i]) + float64(weights.DegreeWeight)*float64(degree)
		if isLeaf(m, i) {
			score += float64(weights.LeafBonus)
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best >= 0 {
		m.Rooms[best].Role = role
	}
}
