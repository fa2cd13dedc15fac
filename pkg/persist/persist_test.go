package persist

import (
	"bytes"
	"testing"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

func sampleMap() *tilemap.Map {
	m := &tilemap.Map{}
	m.Init(12, 8, tilemap.Wall)
	for y := int32(1); y < 7; y++ {
		for x := int32(1); x < 11; x++ {
			m.SetTile(x, y, tilemap.Floor)
		}
	}
	a := m.AddRoom(tilemap.Rect{X: 1, Y: 1, Width: 4, Height: 4}, tilemap.Special)
	b := m.AddRoom(tilemap.Rect{X: 7, Y: 1, Width: 4, Height: 4}, 0)
	m.Rooms[a].Role = tilemap.RoleEntrance
	m.Rooms[a].TypeID = 3
	m.Rooms[b].Role = tilemap.RoleExit
	m.AddCorridor(a, b, 1, 3)
	m.BuildAdjacencyFromCorridors()
	m.RecomputeWalkableMetrics()
	m.RecomputeRoleCounts()
	m.Metrics.Seed = 42
	m.Metrics.AlgorithmID = tilemap.AlgorithmRoomsAndCorridors
	m.Metrics.GenerationClass = tilemap.ClassRoomLike
	m.Metrics.EntranceExitDistance = 1
	m.Metrics.PrimaryEntranceOpening = -1
	m.Metrics.PrimaryExitOpening = -1

	m.Request = tilemap.DefaultGenerateRequest(tilemap.AlgorithmRoomsAndCorridors, 12, 8, 42)
	m.Request.Process.Methods = []tilemap.ProcessMethod{
		tilemap.DefaultProcessMethod(tilemap.ProcessPathSmooth),
	}
	m.Request.RoomTypes.Definitions = []tilemap.RoomTypeDefinition{
		tilemap.DefaultRoomTypeDefinition(3),
	}

	m.Diagnostics.ProcessSteps = []tilemap.ProcessStepDiagnostic{
		{MethodType: tilemap.ProcessPathSmooth, WalkableBefore: 40, WalkableAfter: 42, WalkableDelta: 2, ConnectedBefore: true, ConnectedAfter: true},
	}
	m.Diagnostics.TypeQuotas = []tilemap.RoomTypeQuotaDiagnostic{
		{TypeID: 3, Enabled: true, Min: 0, Max: -1, Target: -1, AssignedCount: 1, MinSatisfied: true},
	}
	return m
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := sampleMap()
	var buf bytes.Buffer
	if err := Encode(m, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Width != m.Width || got.Height != m.Height {
		t.Fatalf("dimensions mismatch: got %dx%d, want %dx%d", got.Width, got.Height, m.Width, m.Height)
	}
	for i := range m.Tiles {
		if got.Tiles[i] != m.Tiles[i] {
			t.Fatalf("tile %d mismatch: got %v want %v", i, got.Tiles[i], m.Tiles[i])
		}
	}
	if len(got.Rooms) != len(m.Rooms) {
		t.Fatalf("room count mismatch: got %d want %d", len(got.Rooms), len(m.Rooms))
	}
	if got.Rooms[0].Role != tilemap.RoleEntrance || got.Rooms[0].TypeID != 3 {
		t.Fatalf("room 0 role/type not preserved: %+v", got.Rooms[0])
	}
	if got.Rooms[1].Role != tilemap.RoleExit {
		t.Fatalf("room 1 role not preserved: %+v", got.Rooms[1])
	}
	if len(got.RoomNeighbors) != len(m.RoomNeighbors) {
		t.Fatalf("neighbor count mismatch: got %d want %d", len(got.RoomNeighbors), len(m.RoomNeighbors))
	}
	if got.Metrics.Seed != m.Metrics.Seed || got.Metrics.AlgorithmID != m.Metrics.AlgorithmID {
		t.Fatalf("metrics mismatch: got %+v want %+v", got.Metrics, m.Metrics)
	}
	if got.Request.Algorithm != m.Request.Algorithm || len(got.Request.Process.Methods) != len(m.Request.Process.Methods) {
		t.Fatalf("snapshot mismatch: got %+v", got.Request)
	}
	if len(got.Diagnostics.ProcessSteps) != 1 || len(got.Diagnostics.TypeQuotas) != 1 {
		t.Fatalf("diagnostics not preserved: %+v", got.Diagnostics)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("XXXX")
	_, err := Decode(buf)
	if dgerr.StatusOf(err) != dgerr.UnsupportedFormat {
		t.Fatalf("expected UNSUPPORTED_FORMAT, got %v", err)
	}
}

func TestDecodeRejectsTruncation(t *testing.T) {
	m := sampleMap()
	var buf bytes.Buffer
	if err := Encode(m, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()/2])
	_, err := Decode(truncated)
	if dgerr.StatusOf(err) != dgerr.IOError {
		t.Fatalf("expected IO_ERROR, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := sampleMap()
	path := t.TempDir() + "/map.dgmp"
	if err := Save(m, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Tiles) != len(m.Tiles) {
		t.Fatalf("tile count mismatch after Save/Load: got %d want %d", len(got.Tiles), len(m.Tiles))
	}
}
