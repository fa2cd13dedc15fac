package tilemap

// Map owns every piece of state a generated dungeon carries: the dense tile
// grid, the flat metadata arenas (rooms, corridors, adjacency, entrances,
// edge openings), the scalar Metrics, the Diagnostics produced by the last
// post-process/assignment pass, and a snapshot of the request that produced
// it. There is exactly one owner of a Map's backing slices at a time; Clone
// is the only sanctioned way to get a second, independent copy (spec
// invariant 9). Nothing here depends on a garbage collector beyond what a
// plain Go slice already requires — no finalizers, no reference counting.
type Map struct {
	Width  int32
	Height int32
	Tiles  []Tile

	Rooms         []Room
	Corridors     []Corridor
	RoomAdjacency []RoomAdjacency
	RoomNeighbors []RoomNeighbor
	RoomEntrances []RoomEntrance
	EdgeOpenings  []EdgeOpening

	Metrics     Metrics
	Diagnostics Diagnostics

	// Request is a snapshot of the GenerateRequest that produced this map,
	// taken after defaulting/validation. It is never aliased with the
	// caller's own request value.
	Request GenerateRequest
}

// Init allocates a w x h grid filled with fill and clears every metadata
// arena. It is the only function that may be called on a zero-valued Map
// before use.
func (m *Map) Init(w, h int32, fill Tile) {
	m.Width = w
	m.Height = h
	m.Tiles = make([]Tile, int(w)*int(h))
	for i := range m.Tiles {
		m.Tiles[i] = fill
	}
	m.ClearMetadata()
}

// Destroy releases the map's backing storage. After Destroy, m must not be
// used except via another Init call.
func (m *Map) Destroy() {
	m.Tiles = nil
	m.ClearMetadata()
	m.Width, m.Height = 0, 0
}

// ClearMetadata empties every metadata arena and resets Metrics/Diagnostics,
// leaving the tile grid untouched.
func (m *Map) ClearMetadata() {
	m.Rooms = nil
	m.Corridors = nil
	m.RoomAdjacency = nil
	m.RoomNeighbors = nil
	m.RoomEntrances = nil
	m.EdgeOpenings = nil
	m.Metrics = Metrics{EntranceExitDistance: -1, PrimaryEntranceOpening: -1, PrimaryExitOpening: -1}
	m.Diagnostics = Diagnostics{}
}

// InBounds reports whether (x,y) addresses a cell of the grid.
func (m *Map) InBounds(x, y int32) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

func (m *Map) index(x, y int32) int {
	return int(y)*int(m.Width) + int(x)
}

// GetTile returns the tile at (x,y). Callers must check InBounds first; an
// out-of-bounds read panics, matching slice semantics rather than returning
// a sentinel that could be silently mistaken for real data.
func (m *Map) GetTile(x, y int32) Tile {
	return m.Tiles[m.index(x, y)]
}

// SetTile writes the tile at (x,y). Out-of-bounds writes are silently
// ignored, so brush/line carving helpers (geometry.go) can clip against the
// grid edge without a bounds check at every call site.
func (m *Map) SetTile(x, y int32, t Tile) {
	if !m.InBounds(x, y) {
		return
	}
	m.Tiles[m.index(x, y)] = t
}

// Fill overwrites every cell of the grid with t.
func (m *Map) Fill(t Tile) {
	for i := range m.Tiles {
		m.Tiles[i] = t
	}
}

// AddRoom appends a new room with the given bounds and flags and returns its
// ID. The backing slice grows geometrically (append's standard doubling),
// never once per room, matching the arena-growth contract of spec §5.
func (m *Map) AddRoom(bounds Rect, flags RoomFlags) int32 {
	id := int32(len(m.Rooms))
	m.Rooms = append(m.Rooms, Room{ID: id, Bounds: bounds, Flags: flags, Role: RoleNone, TypeID: UnassignedType})
	return id
}

// AddCorridor registers a corridor between two existing rooms and returns
// its index within Corridors.
func (m *Map) AddCorridor(fromRoomID, toRoomID, width, length int32) int32 {
	idx := int32(len(m.Corridors))
	m.Corridors = append(m.Corridors, Corridor{FromRoomID: fromRoomID, ToRoomID: toRoomID, Width: width, Length: length})
	return idx
}

// BuildAdjacencyFromCorridors rebuilds the CSR-style RoomAdjacency/
// RoomNeighbors arrays from the current Corridors list. It is called once
// per generation after all corridors for a base algorithm have been added;
// callers must not mutate Corridors afterward without calling this again.
func (m *Map) BuildAdjacencyFromCorridors() {
	roomCount := len(m.Rooms)
	counts := make([]int, roomCount)
	for _, c := range m.Corridors {
		counts[c.FromRoomID]++
		counts[c.ToRoomID]++
	}
	m.RoomAdjacency = make([]RoomAdjacency, roomCount)
	offset := uint64(0)
	for i, c := range counts {
		m.RoomAdjacency[i] = RoomAdjacency{StartIndex: offset, Count: 0}
		offset += uint64(c)
	}
	m.RoomNeighbors = make([]RoomNeighbor, offset)
	cursor := make([]uint64, roomCount)
	for i := range cursor {
		cursor[i] = m.RoomAdjacency[i].StartIndex
	}
	for idx, c := range m.Corridors {
		corridorIdx := int32(idx)
		a, b := c.FromRoomID, c.ToRoomID
		m.RoomNeighbors[cursor[a]] = RoomNeighbor{RoomID: b, CorridorIdx: corridorIdx}
		cursor[a]++
		m.RoomAdjacency[a].Count++
		m.RoomNeighbors[cursor[b]] = RoomNeighbor{RoomID: a, CorridorIdx: corridorIdx}
		cursor[b]++
		m.RoomAdjacency[b].Count++
	}
}

// Neighbors returns the room IDs and corridor indices adjacent to roomID via
// the CSR adjacency arrays.
func (m *Map) Neighbors(roomID int32) []RoomNeighbor {
	adj := m.RoomAdjacency[roomID]
	return m.RoomNeighbors[adj.StartIndex : adj.StartIndex+adj.Count]
}

// QueryEdgeOpenings appends every EdgeOpening matching q to out and returns
// the extended slice. A query field left at its default (MaxCoordinate<0,
// MaxLength<0, empty Sides/Roles) imposes no filter on that dimension.
func (m *Map) QueryEdgeOpenings(q EdgeOpeningQuery, out []EdgeOpening) []EdgeOpening {
	for _, o := range m.EdgeOpenings {
		if len(q.Sides) > 0 && !containsSide(q.Sides, o.Side) {
			continue
		}
		if len(q.Roles) > 0 && !containsRole(q.Roles, o.Role) {
			continue
		}
		if o.Start < q.MinCoordinate {
			continue
		}
		if q.MaxCoordinate >= 0 && o.End > q.MaxCoordinate {
			continue
		}
		if o.Length < q.MinLength {
			continue
		}
		if q.MaxLength >= 0 && o.Length > q.MaxLength {
			continue
		}
		if q.OnlyPrimaryComponent && o.ComponentID != 0 {
			continue
		}
		out = append(out, o)
	}
	return out
}

func containsSide(sides []Side, s Side) bool {
	for _, v := range sides {
		if v == s {
			return true
		}
	}
	return false
}

func containsRole(roles []RoomRole, r RoomRole) bool {
	for _, v := range roles {
		if v == r {
			return true
		}
	}
	return false
}

// Clone returns a deep, fully independent copy of m: every slice is
// reallocated, so mutating the clone never affects the original and vice
// versa (spec invariant 9).
func (m *Map) Clone() *Map {
	c := &Map{
		Width:   m.Width,
		Height:  m.Height,
		Metrics: m.Metrics,
		Request: m.Request,
	}
	c.Tiles = append([]Tile(nil), m.Tiles...)
	c.Rooms = append([]Room(nil), m.Rooms...)
	c.Corridors = append([]Corridor(nil), m.Corridors...)
	c.RoomAdjacency = append([]RoomAdjacency(nil), m.RoomAdjacency...)
	c.RoomNeighbors = append([]RoomNeighbor(nil), m.RoomNeighbors...)
	c.RoomEntrances = append([]RoomEntrance(nil), m.RoomEntrances...)
	c.EdgeOpenings = append([]EdgeOpening(nil), m.EdgeOpenings...)
	c.Diagnostics.ProcessSteps = append([]ProcessStepDiagnostic(nil), m.Diagnostics.ProcessSteps...)
	c.Diagnostics.TypeQuotas = append([]RoomTypeQuotaDiagnostic(nil), m.Diagnostics.TypeQuotas...)
	c.Request.EdgeOpenings = append([]EdgeOpeningSpec(nil), m.Request.EdgeOpenings...)
	c.Request.Process.Methods = append([]ProcessMethod(nil), m.Request.Process.Methods...)
	c.Request.RoomTypes.Definitions = append([]RoomTypeDefinition(nil), m.Request.RoomTypes.Definitions...)
	c.Request.Constraints.ForbiddenRegions = append([]Rect(nil), m.Request.Constraints.ForbiddenRegions...)
	return c
}

// RecomputeWalkableMetrics rescans the grid and refreshes WalkableTileCount
// and WallTileCount; called after any pipeline stage that edits tiles
// directly rather than through AddRoom/AddCorridor.
func (m *Map) RecomputeWalkableMetrics() {
	var walkable, wall uint64
	for _, t := range m.Tiles {
		if t.Walkable() {
			walkable++
		} else if t == Wall {
			wall++
		}
	}
	m.Metrics.WalkableTileCount = walkable
	m.Metrics.WallTileCount = wall
}

// RecomputeRoleCounts rescans Rooms and refreshes the per-role Metrics
// counters plus SpecialRoomCount.
func (m *Map) RecomputeRoleCounts() {
	var entrance, exit, boss, treasure, shop, special uint64
	for _, r := range m.Rooms {
		switch r.Role {
		case RoleEntrance:
			entrance++
		case RoleExit:
			exit++
		case RoleBoss:
			boss++
		case RoleTreasure:
			treasure++
		case RoleShop:
			shop++
		}
		if r.Flags&Special != 0 {
			special++
		}
	}
	m.Metrics.EntranceRoomCount = entrance
	m.Metrics.ExitRoomCount = exit
	m.Metrics.BossRoomCount = boss
	m.Metrics.TreasureRoomCount = treasure
	m.Metrics.ShopRoomCount = shop
	m.Metrics.SpecialRoomCount = special
}
