package tilemap

// UnassignedType is the sentinel type_id meaning "no room-type assigned".
const UnassignedType uint32 = 0xFFFFFFFF

// RoomFlags is a bitmask of per-room flags.
type RoomFlags uint32

// Special marks a room as belonging to the "special" accounting bucket used
// by min_special_rooms constraints (spec §4.9). It is the only flag bit this
// module reserves; hosts may use the remaining bits freely.
const Special RoomFlags = 1 << 0

// RoomRole is the semantic role assigned to a room by AssignRoles.
type RoomRole int32

const (
	RoleNone RoomRole = iota
	RoleEntrance
	RoleExit
	RoleBoss
	RoleTreasure
	RoleShop
)

func (r RoomRole) String() string {
	switch r {
	case RoleNone:
		return "NONE"
	case RoleEntrance:
		return "ENTRANCE"
	case RoleExit:
		return "EXIT"
	case RoleBoss:
		return "BOSS"
	case RoleTreasure:
		return "TREASURE"
	case RoleShop:
		return "SHOP"
	default:
		return "UNKNOWN"
	}
}

// Room is an axis-aligned rectangular sub-region of a Map.
type Room struct {
	ID     int32
	Bounds Rect
	Flags  RoomFlags
	Role   RoomRole
	TypeID uint32
}

// Corridor is a traversable path registered between two rooms. Its tiles are
// not stored separately from the grid.
type Corridor struct {
	FromRoomID int32
	ToRoomID   int32
	Width      int32
	Length     int32
}

// RoomAdjacency is one room's span into the flat RoomNeighbors array
// (CSR-style graph, spec §3).
type RoomAdjacency struct {
	StartIndex uint64
	Count      uint64
}

// RoomNeighbor is one entry of the flat neighbor array referenced by
// RoomAdjacency spans.
type RoomNeighbor struct {
	RoomID      int32
	CorridorIdx int32
}

// RoomEntrance records where a corridor meets a room.
type RoomEntrance struct {
	RoomID       int32
	RoomTile     Point
	CorridorTile Point
	Normal       Point
}

// Side identifies one of the four map borders.
type Side int32

const (
	SideNorth Side = iota
	SideSouth
	SideEast
	SideWest
)

func (s Side) String() string {
	switch s {
	case SideNorth:
		return "NORTH"
	case SideSouth:
		return "SOUTH"
	case SideEast:
		return "EAST"
	case SideWest:
		return "WEST"
	default:
		return "UNKNOWN"
	}
}

// NoComponent is the ComponentID sentinel for an opening not analyzed
// against the connectivity engine yet.
const NoComponent int32 = -1

// EdgeOpening is a walkable run along one of the four map borders.
type EdgeOpening struct {
	ID          int32
	Side        Side
	Start       int32 // inclusive, measured along the side
	End         int32 // inclusive
	Length      int32
	EdgeTile    Point
	InwardTile  Point
	Normal      Point
	ComponentID int32
	Role        RoomRole
}

// ProcessStepDiagnostic records the effect of one post-process method.
type ProcessStepDiagnostic struct {
	MethodType       ProcessMethodType
	WalkableBefore   uint64
	WalkableAfter    uint64
	WalkableDelta    int64
	ComponentsBefore uint64
	ComponentsAfter  uint64
	ComponentsDelta  int64
	ConnectedBefore  bool
	ConnectedAfter   bool
}

// RoomTypeQuotaDiagnostic records how one room-type definition's quota fared
// during assignment.
type RoomTypeQuotaDiagnostic struct {
	TypeID          uint32
	Enabled         bool
	Min             int32
	Max             int32
	Target          int32
	AssignedCount   uint64
	MinSatisfied    bool
	MaxSatisfied    bool
	TargetSatisfied bool
}

// Diagnostics is the owned diagnostics arena: a per-step process record plus
// a per-room-type quota record, both cleared together on a failing
// post-process pipeline run (spec §4.6).
type Diagnostics struct {
	ProcessSteps  []ProcessStepDiagnostic
	TypeQuotas    []RoomTypeQuotaDiagnostic
}

// Metrics holds the scalar measurements spec §3/§4.2 requires Map to carry
// for O(1) access, all of them otherwise derivable from the grid and
// metadata arenas by a full rescan.
type Metrics struct {
	Seed                    uint64
	AlgorithmID             Algorithm
	GenerationClass         GenerationClass
	GenerationAttempts      uint64
	WalkableTileCount       uint64
	WallTileCount           uint64
	SpecialRoomCount        uint64
	EntranceRoomCount       uint64
	ExitRoomCount           uint64
	BossRoomCount           uint64
	TreasureRoomCount       uint64
	ShopRoomCount           uint64
	ConnectedComponentCount uint64
	LargestComponentSize    uint64
	ConnectedFloor          bool
	EntranceExitDistance    int32 // -1 if not applicable
	CorridorTotalLength     uint64
	PrimaryEntranceOpening  int32 // -1 if none
	PrimaryExitOpening      int32 // -1 if none
}
