package validation

import (
	"testing"

	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

func connectedMap() *tilemap.Map {
	m := &tilemap.Map{}
	m.Init(10, 10, tilemap.Wall)
	for y := int32(1); y < 9; y++ {
		for x := int32(1); x < 9; x++ {
			m.SetTile(x, y, tilemap.Floor)
		}
	}
	m.AddRoom(tilemap.Rect{X: 1, Y: 1, Width: 8, Height: 8}, 0)
	m.RecomputeWalkableMetrics()
	m.Metrics.ConnectedFloor = true
	m.Metrics.EntranceExitDistance = -1
	return m
}

func TestAcceptanceTestPassesPermissiveConstraints(t *testing.T) {
	m := connectedMap()
	cons := tilemap.DefaultConstraints()
	rep := AcceptanceTest(m, &cons)
	if !rep.Passed {
		t.Fatalf("expected permissive constraints to pass, got: %+v", rep.Checks)
	}
}

func TestAcceptanceTestFailsOuterWallViolation(t *testing.T) {
	m := connectedMap()
	m.SetTile(0, 0, tilemap.Floor)
	cons := tilemap.DefaultConstraints()
	cons.EnforceOuterWalls = true
	rep := AcceptanceTest(m, &cons)
	if rep.Passed {
		t.Fatal("expected outer-wall violation to fail acceptance")
	}
}

func TestAcceptanceTestFailsFloorCoverageOutOfRange(t *testing.T) {
	m := connectedMap()
	cons := tilemap.DefaultConstraints()
	cons.MinFloorCoverage = 0.99
	rep := AcceptanceTest(m, &cons)
	if rep.Passed {
		t.Fatal("expected floor coverage below minimum to fail acceptance")
	}
}

func TestAcceptanceTestChecksForbiddenRegions(t *testing.T) {
	m := connectedMap()
	cons := tilemap.DefaultConstraints()
	cons.ForbiddenRegions = []tilemap.Rect{{X: 2, Y: 2, Width: 2, Height: 2}}
	rep := AcceptanceTest(m, &cons)
	if rep.Passed {
		t.Fatal("expected a walkable forbidden region to fail acceptance")
	}
}

func TestValidateRequestRejectsUndersizedMap(t *testing.T) {
	req := tilemap.DefaultGenerateRequest(tilemap.AlgorithmCellularAutomata, 2, 2, 1)
	if err := ValidateRequest(&req, tilemap.PublicMinSize); err == nil {
		t.Fatal("expected undersized request to fail validation")
	}
}
