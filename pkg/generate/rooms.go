package generate

import (
	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/prim_kruskal"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// genRoomsAndCorridors implements G1 (spec §4.5).
func genRoomsAndCorridors(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.RoomsAndCorridors
	rooms := placeNonOverlappingRooms(m, r, p.MinRooms, p.MaxRooms, p.RoomMinSize, p.RoomMaxSize, p.MaxPlacementAttempts, 1, req.Constraints.ForbiddenRegions)
	if len(rooms) == 0 {
		return genFailed("generate.RoomsAndCorridors")
	}
	for _, pr := range rooms {
		carveRoom(m, pr.bounds)
	}
	width := oddClamp(p.CorridorWidth, 1, 9)
	routing := p.CorridorRouting
	connectRoomsInOrder(m, r, rooms, width, routing)
	registerRoomsAndChainCorridors(m, rooms, width)
	return nil
}

// bspNode is one partition of the BSP tree used by G3.
type bspNode struct {
	bounds      tilemap.Rect
	left, right *bspNode
	room        *tilemap.Rect
}

// genBSPTree implements G3 (spec §4.5).
func genBSPTree(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.BSPTree
	root := &bspNode{bounds: tilemap.Rect{X: 1, Y: 1, Width: m.Width - 2, Height: m.Height - 2}}
	minLeaf := p.RoomMinSize + 2
	targetLeaves := r.RangeInt(int(p.MinRooms), int(p.MaxRooms))

	leaves := []*bspNode{root}
	for len(leaves) < targetLeaves {
		splitIdx := -1
		for i, leaf := range leaves {
			if leaf.bounds.Width >= minLeaf*2 || leaf.bounds.Height >= minLeaf*2 {
				splitIdx = i
				break
			}
		}
		if splitIdx < 0 {
			break
		}
		leaf := leaves[splitIdx]
		splitHorizontally := leaf.bounds.Width < leaf.bounds.Height
		if leaf.bounds.Width == leaf.bounds.Height {
			splitHorizontally = r.Bool(50)
		}
		var a, b tilemap.Rect
		if splitHorizontally {
			lo, hi := leaf.bounds.Top()+minLeaf, leaf.bounds.Bottom()-minLeaf
			if lo > hi {
				break
			}
			cut := r.Range32(lo, hi)
			a = tilemap.Rect{X: leaf.bounds.X, Y: leaf.bounds.Y, Width: leaf.bounds.Width, Height: cut - leaf.bounds.Y}
			b = tilemap.Rect{X: leaf.bounds.X, Y: cut, Width: leaf.bounds.Width, Height: leaf.bounds.Bottom() - cut}
		} else {
			lo, hi := leaf.bounds.Left()+minLeaf, leaf.bounds.Right()-minLeaf
			if lo > hi {
				break
			}
			cut := r.Range32(lo, hi)
			a = tilemap.Rect{X: leaf.bounds.X, Y: leaf.bounds.Y, Width: cut - leaf.bounds.X, Height: leaf.bounds.Height}
			b = tilemap.Rect{X: cut, Y: leaf.bounds.Y, Width: leaf.bounds.Right() - cut, Height: leaf.bounds.Height}
		}
		leaf.left = &bspNode{bounds: a}
		leaf.right = &bspNode{bounds: b}
		leaves = append(leaves[:splitIdx], leaves[splitIdx+1:]...)
		leaves = append(leaves, leaf.left, leaf.right)
	}

	var placedRooms []placedRoom
	for _, leaf := range leaves {
		maxSize := p.RoomMaxSize
		if leaf.bounds.Width-2 < maxSize {
			maxSize = leaf.bounds.Width - 2
		}
		if leaf.bounds.Height-2 < maxSize {
			maxSize = leaf.bounds.Height - 2
		}
		if maxSize < p.RoomMinSize {
			continue
		}
		w := r.Range32(p.RoomMinSize, maxSize)
		h := r.Range32(p.RoomMinSize, maxSize)
		maxX := leaf.bounds.Right() - 1 - w
		maxY := leaf.bounds.Bottom() - 1 - h
		if maxX < leaf.bounds.Left()+1 || maxY < leaf.bounds.Top()+1 {
			continue
		}
		x := r.Range32(leaf.bounds.Left()+1, maxX)
		y := r.Range32(leaf.bounds.Top()+1, maxY)
		bounds := tilemap.Rect{X: x, Y: y, Width: w, Height: h}
		leaf.room = &bounds
		carveRoom(m, bounds)
		placedRooms = append(placedRooms, placedRoom{bounds: bounds})
	}
	if len(placedRooms) == 0 {
		return genFailed("generate.BSPTree")
	}

	connectBSPSubtree(root, m, r)
	registerRoomsAndChainCorridors(m, placedRooms, 1)
	return nil
}

// connectBSPSubtree recursively connects a representative room from each
// child subtree, choosing the representative leaf by coin flip.
func connectBSPSubtree(n *bspNode, m *tilemap.Map, r *rng.RNG) *tilemap.Rect {
	if n == nil {
		return nil
	}
	if n.room != nil {
		return n.room
	}
	left := connectBSPSubtree(n.left, m, r)
	right := connectBSPSubtree(n.right, m, r)
	if left != nil && right != nil {
		tilemap.CarveLPath(m, left.CenterX(), left.CenterY(), right.CenterX(), right.CenterY(), 1, tilemap.Floor, tilemap.RoutingRandom, r.Bool(50))
	}
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	if r.Bool(50) {
		return left
	}
	return right
}

// genRoomsAndMazes implements G8 (spec §4.5): rooms placed on odd
// coordinates, residual wall filled by a growing-tree maze, rooms stitched
// to the maze via random connector walls joined by union-find, with
// optional dead-end pruning.
func genRoomsAndMazes(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.RoomsAndMazes
	rooms := placeNonOverlappingRooms(m, r, p.MinRooms, p.MaxRooms, p.RoomMinSize, p.RoomMaxSize, 300, 1, req.Constraints.ForbiddenRegions)
	if len(rooms) == 0 {
		return genFailed("generate.RoomsAndMazes")
	}
	for _, pr := range rooms {
		carveRoom(m, pr.bounds)
	}

	carveGrowingTreeMaze(m, r, p.MazeWigglePercent, rooms)

	// The maze backbone occupies the synthetic partition id len(rooms); every
	// room that opens a connector onto it joins that partition too, so rooms
	// chained only through the maze still end up in the same component.
	mazeID := len(rooms)
	uf := newUnionFind(len(rooms) + 1)
	connectors := collectRoomConnectorWalls(m, rooms)
	shuffleConnectors(r, connectors)
	for _, c := range connectors {
		a, b := roomsAdjacentToConnector(rooms, c)
		if a < 0 {
			continue
		}
		if b < 0 {
			b = mazeID
		}
		if uf.find(a) == uf.find(b) {
			continue
		}
		m.SetTile(c.x, c.y, tilemap.Floor)
		uf.union(a, b)
	}

	if p.EnsureFullConnectivity {
		pruneSteps := p.DeadEndPruneSteps
		pruneDeadEnds(m, pruneSteps)
	}

	registerRoomsAndChainCorridors(m, rooms, 1)
	return nil
}

type connectorCell struct {
	x, y int32
}

func collectRoomConnectorWalls(m *tilemap.Map, rooms []placedRoom) []connectorCell {
	var out []connectorCell
	for _, pr := range rooms {
		b := pr.bounds
		for x := b.Left(); x < b.Right(); x++ {
			if m.InBounds(x, b.Top()-1) && !m.GetTile(x, b.Top()-1).Walkable() {
				out = append(out, connectorCell{x, b.Top() - 1})
			}
			if m.InBounds(x, b.Bottom()) && !m.GetTile(x, b.Bottom()).Walkable() {
				out = append(out, connectorCell{x, b.Bottom()})
			}
		}
		for y := b.Top(); y < b.Bottom(); y++ {
			if m.InBounds(b.Left()-1, y) && !m.GetTile(b.Left()-1, y).Walkable() {
				out = append(out, connectorCell{b.Left() - 1, y})
			}
			if m.InBounds(b.Right(), y) && !m.GetTile(b.Right(), y).Walkable() {
				out = append(out, connectorCell{b.Right(), y})
			}
		}
	}
	return out
}

func shuffleConnectors(r *rng.RNG, cells []connectorCell) {
	for i := len(cells) - 1; i > 0; i-- {
		j := int(r.Range32(0, int32(i)))
		cells[i], cells[j] = cells[j], cells[i]
	}
}

func roomsAdjacentToConnector(rooms []placedRoom, c connectorCell) (int, int) {
	a, b := -1, -1
	for ri, pr := range rooms {
		padded := pr.bounds.Padded(1)
		if padded.Contains(c.x, c.y) {
			if a < 0 {
				a = ri
			} else if ri != a {
				b = ri
			}
		}
	}
	return a, b
}

// carveGrowingTreeMaze fills every wall cell not already carved with a
// stack-based depth-first maze on the odd-coordinate lattice.
func carveGrowingTreeMaze(m *tilemap.Map, r *rng.RNG, wigglePercent int32, rooms []placedRoom) {
	visited := make(map[[2]int32]bool)
	markRoom := func(x, y int32) bool {
		for _, pr := range rooms {
			if pr.bounds.Padded(1).Contains(x, y) {
				return true
			}
		}
		return false
	}
	var startX, startY int32 = -1, -1
	for y := int32(1); y < m.Height-1 && startX < 0; y += 2 {
		for x := int32(1); x < m.Width-1; x += 2 {
			if !markRoom(x, y) {
				startX, startY = x, y
				break
			}
		}
	}
	if startX < 0 {
		return
	}
	stack := [][2]int32{{startX, startY}}
	visited[[2]int32{startX, startY}] = true
	m.SetTile(startX, startY, tilemap.Floor)
	baseDirs := [][2]int32{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		order := shuffleDirs(r, baseDirs, wigglePercent)
		advanced := false
		for _, d := range order {
			nx, ny := cur[0]+d[0], cur[1]+d[1]
			if nx < 1 || ny < 1 || nx >= m.Width-1 || ny >= m.Height-1 {
				continue
			}
			key := [2]int32{nx, ny}
			if visited[key] || markRoom(nx, ny) {
				continue
			}
			mx, my := cur[0]+d[0]/2, cur[1]+d[1]/2
			m.SetTile(mx, my, tilemap.Floor)
			m.SetTile(nx, ny, tilemap.Floor)
			visited[key] = true
			stack = append(stack, key)
			advanced = true
			break
		}
		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
}

func pruneDeadEnds(m *tilemap.Map, maxRounds int32) {
	round := int32(0)
	for maxRounds < 0 || round < maxRounds {
		pruned := false
		for y := int32(1); y < m.Height-1; y++ {
			for x := int32(1); x < m.Width-1; x++ {
				if !m.GetTile(x, y).Walkable() {
					continue
				}
				n := 0
				if m.GetTile(x-1, y).Walkable() {
					n++
				}
				if m.GetTile(x+1, y).Walkable() {
					n++
				}
				if m.GetTile(x, y-1).Walkable() {
					n++
				}
				if m.GetTile(x, y+1).Walkable() {
					n++
				}
				if n <= 1 {
					m.SetTile(x, y, tilemap.Wall)
					pruned = true
				}
			}
		}
		round++
		if !pruned {
			break
		}
	}
}

// unionFind is a minimal disjoint-set used by G8's room/maze stitching.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// genRoomGraph implements G9 (spec §4.5), wiring
// katalvlaran-lvlath/prim_kruskal.Kruskal for the minimum spanning tree over
// the candidate edge set.
func genRoomGraph(req *tilemap.GenerateRequest, m *tilemap.Map, r *rng.RNG) error {
	p := req.Params.RoomGraph
	rooms := placeNonOverlappingRooms(m, r, p.MinRooms, p.MaxRooms, p.RoomMinSize, p.RoomMaxSize, 300, 1, req.Constraints.ForbiddenRegions)
	if len(rooms) == 0 {
		return genFailed("generate.RoomGraph")
	}
	for _, pr := range rooms {
		carveRoom(m, pr.bounds)
	}

	mstEdges, extraEdges, err := buildRoomGraphEdges(rooms, int(p.NeighborCandidates))
	if err != nil {
		return dgerr.Wrap("generate.RoomGraph", dgerr.GenerationFailed, err)
	}

	for _, e := range mstEdges {
		tilemap.CarveLPath(m, rooms[e.a].bounds.CenterX(), rooms[e.a].bounds.CenterY(), rooms[e.b].bounds.CenterX(), rooms[e.b].bounds.CenterY(), 1, tilemap.Floor, tilemap.RoutingRandom, r.Bool(50))
	}
	for _, e := range extraEdges {
		if r.Bool(int(p.ExtraConnectionChancePercent)) {
			tilemap.CarveLPath(m, rooms[e.a].bounds.CenterX(), rooms[e.a].bounds.CenterY(), rooms[e.b].bounds.CenterX(), rooms[e.b].bounds.CenterY(), 1, tilemap.Floor, tilemap.RoutingRandom, r.Bool(50))
			mstEdges = append(mstEdges, e)
		}
	}

	ids := make([]int32, len(rooms))
	for i, pr := range rooms {
		ids[i] = m.AddRoom(pr.bounds, 0)
	}
	for _, e := range mstEdges {
		length := manhattanCenterDistance(rooms[e.a].bounds, rooms[e.b].bounds)
		m.AddCorridor(ids[e.a], ids[e.b], 1, length)
	}
	m.BuildAdjacencyFromCorridors()
	return nil
}

type roomEdge struct {
	a, b int
}

func roomVertexID(i int) string { return "r" + itoa(i) }

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [12]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// buildRoomGraphEdges builds each room's neighborCandidates nearest-neighbor
// candidate set (squared distance, stable tie-break by room id), runs
// Kruskal over the resulting weighted graph, and returns the MST edges plus
// every candidate edge Kruskal did not select.
func buildRoomGraphEdges(rooms []placedRoom, neighborCandidates int) ([]roomEdge, []roomEdge, error) {
	n := len(rooms)
	candSets := make([][]distCand, n)
	for i := range rooms {
		var cs []distCand
		for j := range rooms {
			if i == j {
				continue
			}
			dx := int64(rooms[i].bounds.CenterX() - rooms[j].bounds.CenterX())
			dy := int64(rooms[i].bounds.CenterY() - rooms[j].bounds.CenterY())
			cs = append(cs, distCand{other: j, dist: dx*dx + dy*dy})
		}
		sortCandsByDistThenID(cs)
		if len(cs) > neighborCandidates {
			cs = cs[:neighborCandidates]
		}
		candSets[i] = cs
	}

	g := core.NewGraph(core.WithWeighted())
	for i := range rooms {
		_ = g.AddVertex(roomVertexID(i))
	}
	edgeSet := make(map[[2]int]bool)
	var allEdges []roomEdge
	for i, cs := range candSets {
		for _, c := range cs {
			a, b := i, c.other
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if edgeSet[key] {
				continue
			}
			edgeSet[key] = true
			allEdges = append(allEdges, roomEdge{a: a, b: b})
			_, _ = g.AddEdge(roomVertexID(a), roomVertexID(b), candDistance(rooms, a, b))
		}
	}

	mst, _, err := prim_kruskal.Kruskal(g)
	if err != nil {
		return nil, nil, err
	}
	mstSet := make(map[[2]int]bool, len(mst))
	for _, e := range mst {
		a, b := vertexIndex(e.From), vertexIndex(e.To)
		if a > b {
			a, b = b, a
		}
		mstSet[[2]int{a, b}] = true
	}

	var mstEdges, extraEdges []roomEdge
	for _, e := range allEdges {
		if mstSet[[2]int{e.a, e.b}] {
			mstEdges = append(mstEdges, e)
		} else {
			extraEdges = append(extraEdges, e)
		}
	}
	return mstEdges, extraEdges, nil
}

func candDistance(rooms []placedRoom, a, b int) int64 {
	dx := int64(rooms[a].bounds.CenterX() - rooms[b].bounds.CenterX())
	dy := int64(rooms[a].bounds.CenterY() - rooms[b].bounds.CenterY())
	return dx*dx + dy*dy
}

func vertexIndex(id string) int {
	n := 0
	for _, c := range id[1:] {
		n = n*10 + int(c-'0')
	}
	return n
}

type distCand struct {
	other int
	dist  int64
}

func sortCandsByDistThenID(cs []distCand) {
	for i := 1; i < len(cs); i++ {
		j := i
		for j > 0 && lessCand(cs[j], cs[j-1]) {
			cs[j], cs[j-1] = cs[j-1], cs[j]
			j--
		}
	}
}

func lessCand(a, b distCand) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.other < b.other
}


// shuffleDirs returns dirs in a randomized order biased by wigglePercent:
// with probability (100-wigglePercent) the original cardinal order is kept
// at the front, otherwise a full shuffle is used, matching the "wiggle"
// framing the other walk-based generators use for direction bias.
func shuffleDirs(r *rng.RNG, dirs [][2]int32, wigglePercent int32) [][2]int32 {
	out := append([][2]int32(nil), dirs...)
	if !r.Bool(int(wigglePercent)) {
		return out
	}
	for i := len(out) - 1; i > 0; i-- {
		j := int(r.Range32(0, int32(i)))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
