package roomtypes

import (
	"testing"

	"github.com/dshills/dungeoneer-go/pkg/rng"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

func threeRoomChain() *tilemap.Map {
	m := &tilemap.Map{}
	m.Init(30, 10, tilemap.Wall)
	bounds := []tilemap.Rect{
		{X: 1, Y: 1, Width: 4, Height: 4},
		{X: 10, Y: 1, Width: 8, Height: 8},
		{X: 24, Y: 1, Width: 3, Height: 3},
	}
	for _, b := range bounds {
		for y := b.Top(); y < b.Bottom(); y++ {
			for x := b.Left(); x < b.Right(); x++ {
				m.SetTile(x, y, tilemap.Floor)
			}
		}
		m.AddRoom(b, 0)
	}
	m.AddCorridor(0, 1, 1, 6)
	m.AddCorridor(1, 2, 1, 6)
	m.BuildAdjacencyFromCorridors()
	m.RecomputeWalkableMetrics()
	return m
}

func TestAssignSatisfiesMinCounts(t *testing.T) {
	m := threeRoomChain()
	cfg := &tilemap.RoomTypeAssignmentConfig{
		Definitions: []tilemap.RoomTypeDefinition{
			{
				TypeID: 1, Enabled: true, MinCount: 1, MaxCount: 1, TargetCount: 1,
				Constraints:  tilemap.DefaultRoomTypeConstraints(),
				Preferences:  tilemap.RoomTypePreferences{Weight: 5, LargerRoomBias: 1},
			},
			{
				TypeID: 2, Enabled: true, MinCount: 1, MaxCount: -1, TargetCount: -1,
				Constraints: tilemap.DefaultRoomTypeConstraints(),
				Preferences: tilemap.DefaultRoomTypePreferences(),
			},
		},
		Policy: tilemap.RoomTypeAssignmentPolicy{AllowUntypedRooms: true},
	}
	res, err := Assign(cfg, m, rng.New(7))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	for _, q := range res.Quotas {
		if !q.MinSatisfied {
			t.Fatalf("type %d failed to meet its minimum count: got %d", q.TypeID, q.AssignedCount)
		}
	}
	// The largest room (type 1's bias favors area) should win type 1.
	if m.Rooms[1].TypeID != 1 {
		t.Fatalf("expected room 1 (largest) to receive type 1, got %d", m.Rooms[1].TypeID)
	}
}

func TestAssignStrictModeFailsWhenInfeasible(t *testing.T) {
	m := threeRoomChain()
	cfg := &tilemap.RoomTypeAssignmentConfig{
		Definitions: []tilemap.RoomTypeDefinition{
			{
				TypeID: 1, Enabled: true, MinCount: 5, MaxCount: -1, TargetCount: -1,
				Constraints: tilemap.DefaultRoomTypeConstraints(),
				Preferences: tilemap.DefaultRoomTypePreferences(),
			},
		},
		Policy: tilemap.RoomTypeAssignmentPolicy{StrictMode: true, AllowUntypedRooms: true},
	}
	if _, err := Assign(cfg, m, rng.New(1)); err == nil {
		t.Fatal("expected strict-mode infeasibility error, got nil")
	}
}

func TestAssignIsDeterministic(t *testing.T) {
	cfg := &tilemap.RoomTypeAssignmentConfig{
		Definitions: []tilemap.RoomTypeDefinition{
			{TypeID: 1, Enabled: true, MinCount: 2, MaxCount: 2, TargetCount: 2,
				Constraints: tilemap.DefaultRoomTypeConstraints(), Preferences: tilemap.DefaultRoomTypePreferences()},
		},
		Policy: tilemap.RoomTypeAssignmentPolicy{AllowUntypedRooms: true},
	}
	m1 := threeRoomChain()
	m2 := threeRoomChain()
	if _, err := Assign(cfg, m1, rng.New(42)); err != nil {
		t.Fatalf("Assign m1: %v", err)
	}
	if _, err := Assign(cfg, m2, rng.New(42)); err != nil {
		t.Fatalf("Assign m2: %v", err)
	}
	for i := range m1.Rooms {
		if m1.Rooms[i].TypeID != m2.Rooms[i].TypeID {
			t.Fatalf("room %d type mismatch across identical seeded runs: %d vs %d", i, m1.Rooms[i].TypeID, m2.Rooms[i].TypeID)
		}
	}
}

func TestAssignRolesPicksEntranceAndExit(t *testing.T) {
	m := threeRoomChain()
	cons := tilemap.DefaultConstraints()
	cons.ExitWeights = tilemap.RolePlacementWeights{DistanceWeight: 1}
	if err := AssignRoles(&cons, m); err != nil {
		t.Fatalf("AssignRoles: %v", err)
	}
	var entrances, exits int
	for _, r := range m.Rooms {
		switch r.Role {
		case tilemap.RoleEntrance:
			entrances++
		case tilemap.RoleExit:
			exits++
		}
	}
	if entrances != 1 {
		t.Fatalf("expected exactly 1 entrance room, got %d", entrances)
	}
	if exits != 1 {
		t.Fatalf("expected exactly 1 exit room, got %d", exits)
	}
	// The exit should be the farthest room from the entrance (room 2).
	if m.Rooms[2].Role != tilemap.RoleExit {
		t.Fatalf("expected room 2 (farthest) to be the exit, got role %v on room 2", m.Rooms[2].Role)
	}
}
