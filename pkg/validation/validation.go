package validation

import (
	"fmt"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// floorCoverageEpsilon is the tolerance spec §4.9 specifies for the floor
// coverage bound check.
const floorCoverageEpsilon = 1e-4

// CheckResult records one constraint's pass/fail outcome and, on failure, a
// human-readable explanation.
type CheckResult struct {
	Name      string
	Satisfied bool
	Details   string
}

// Report is the aggregate outcome of AcceptanceTest: every individual check
// plus the overall pass/fail.
type Report struct {
	Passed bool
	Checks []CheckResult
}

// ValidateRequest runs the pre-generate checks spec §4.9 describes: it
// delegates to the request's own Validate (width/height/params/policy/type
// bounds) using minSize as the width/height floor.
func ValidateRequest(req *tilemap.GenerateRequest, minSize int32) error {
	if err := req.Validate(minSize); err != nil {
		return dgerr.Wrap("validation.ValidateRequest", dgerr.InvalidArgument, err)
	}
	if err := req.RoomTypes.Validate(); err != nil {
		return dgerr.Wrap("validation.ValidateRequest", dgerr.InvalidArgument, err)
	}
	return nil
}

// AcceptanceTest runs the post-generate constraint checks spec §4.9
// describes against a finished map. It never mutates m.
func AcceptanceTest(m *tilemap.Map, cons *tilemap.Constraints) Report {
	var checks []CheckResult
	add := func(name string, ok bool, details string) {
		checks = append(checks, CheckResult{Name: name, Satisfied: ok, Details: details})
	}

	total := uint64(m.Width) * uint64(m.Height)
	coverage := 0.0
	if total > 0 {
		coverage = float64(m.Metrics.WalkableTileCount) / float64(total)
	}
	add("floor_coverage", coverage >= cons.MinFloorCoverage-floorCoverageEpsilon && coverage <= cons.MaxFloorCoverage+floorCoverageEpsilon,
		fmt.Sprintf("coverage %.4f outside [%.4f, %.4f]", coverage, cons.MinFloorCoverage, cons.MaxFloorCoverage))

	roomCount := int32(len(m.Rooms))
	add("room_count", roomCount >= cons.MinRoomCount && (cons.MaxRoomCount < 0 || roomCount <= cons.MaxRoomCount),
		fmt.Sprintf("room count %d outside [%d, %d]", roomCount, cons.MinRoomCount, cons.MaxRoomCount))

	add("min_special_rooms", int32(m.Metrics.SpecialRoomCount) >= cons.MinSpecialRooms,
		fmt.Sprintf("special room count %d below minimum %d", m.Metrics.SpecialRoomCount, cons.MinSpecialRooms))

	add("required_entrance_rooms", int32(m.Metrics.EntranceRoomCount) >= cons.RequiredEntranceRooms, "entrance room count below requirement")
	add("required_exit_rooms", int32(m.Metrics.ExitRoomCount) >= cons.RequiredExitRooms, "exit room count below requirement")
	add("required_boss_rooms", int32(m.Metrics.BossRoomCount) >= cons.RequiredBossRooms, "boss room count below requirement")
	add("required_treasure_rooms", int32(m.Metrics.TreasureRoomCount) >= cons.RequiredTreasureRooms, "treasure room count below requirement")
	add("required_shop_rooms", int32(m.Metrics.ShopRoomCount) >= cons.RequiredShopRooms, "shop room count below requirement")

	if cons.MinEntranceExitDistance > 0 {
		add("min_entrance_exit_distance", m.Metrics.EntranceExitDistance >= cons.MinEntranceExitDistance,
			fmt.Sprintf("entrance-exit distance %d below minimum %d", m.Metrics.EntranceExitDistance, cons.MinEntranceExitDistance))
	}

	if cons.RequireBossOnLeaf {
		add("require_boss_on_leaf", bossRoomsAreLeaves(m), "a BOSS room does not have graph degree 1")
	}

	if cons.RequireConnectedFloor {
		add("require_connected_floor", m.Metrics.ConnectedFloor, "floor is not a single connected region")
	}

	if cons.EnforceOuterWalls {
		add("enforce_outer_walls", outerWallsIntact(m), "a border tile is not WALL")
	}

	add("forbidden_regions", forbiddenRegionsClear(m, cons.ForbiddenRegions), "a forbidden region contains a walkable tile")

	passed := true
	for _, c := range checks {
		if !c.Satisfied {
			passed = false
			break
		}
	}
	return Report{Passed: passed, Checks: checks}
}

func bossRoomsAreLeaves(m *tilemap.Map) bool {
	for i, room := range m.Rooms {
		if room.Role != tilemap.RoleBoss {
			continue
		}
		if i >= len(m.RoomAdjacency) || m.RoomAdjacency[i].Count != 1 {
			return false
		}
	}
	return true
}

func outerWallsIntact(m *tilemap.Map) bool {
	for x := int32(0); x < m.Width; x++ {
		if m.GetTile(x, 0) != tilemap.Wall || m.GetTile(x, m.Height-1) != tilemap.Wall {
			return false
		}
	}
	for y := int32(0); y < m.Height; y++ {
		if m.GetTile(0, y) != tilemap.Wall || m.GetTile(m.Width-1, y) != tilemap.Wall {
			return false
		}
	}
	return true
}

func forbiddenRegionsClear(m *tilemap.Map, regions []tilemap.Rect) bool {
	for _, r := range regions {
		r = tilemap.ClampRect(r, m.Width, m.Height)
		for y := r.Top(); y < r.Bottom(); y++ {
			for x := r.Left(); x < r.Right(); x++ {
				if m.GetTile(x, y).Walkable() {
					return false
				}
			}
		}
	}
	return true
}
