package template

import (
	"testing"

	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

func hostWithRoom() (*tilemap.Map, tilemap.Rect) {
	m := &tilemap.Map{}
	m.Init(20, 20, tilemap.Wall)
	bounds := tilemap.Rect{X: 5, Y: 5, Width: 8, Height: 6}
	for y := bounds.Top(); y < bounds.Bottom(); y++ {
		for x := bounds.Left(); x < bounds.Right(); x++ {
			m.SetTile(x, y, tilemap.Floor)
		}
	}
	// one corridor entering from the west wall
	m.SetTile(bounds.Left()-1, bounds.Top()+2, tilemap.Floor)
	m.AddRoom(bounds, 0)
	return m, bounds
}

func cellularTemplate() *tilemap.Map {
	t := &tilemap.Map{}
	t.Init(8, 6, tilemap.Wall)
	for y := int32(1); y < 5; y++ {
		for x := int32(1); x < 7; x++ {
			t.SetTile(x, y, tilemap.Floor)
		}
	}
	t.Request = tilemap.DefaultGenerateRequest(tilemap.AlgorithmCellularAutomata, 8, 6, 1)
	return t
}

func TestStampRoomPreservesWalkableShape(t *testing.T) {
	host, bounds := hostWithRoom()
	tmpl := cellularTemplate()

	s := &Stamper{
		Generate: func(req *tilemap.GenerateRequest, seed uint64) (*tilemap.Map, error) {
			sub := &tilemap.Map{}
			sub.Init(req.Width, req.Height, tilemap.Wall)
			for y := int32(1); y < req.Height-1; y++ {
				for x := int32(1); x < req.Width-1; x++ {
					sub.SetTile(x, y, tilemap.Floor)
				}
			}
			sub.Request = *req
			return sub, nil
		},
		LoadTemplate: func(path string) (*tilemap.Map, error) {
			return tmpl, nil
		},
	}

	guard := &DepthGuard{}
	def := tilemap.RoomTypeDefinition{TypeID: 1, TemplateMapPath: "whatever.dgmp"}
	if err := s.StampRoom(def, "whatever.dgmp", bounds, host, 99, guard); err != nil {
		t.Fatalf("StampRoom: %v", err)
	}

	floorCount := 0
	for y := bounds.Top(); y < bounds.Bottom(); y++ {
		for x := bounds.Left(); x < bounds.Right(); x++ {
			if host.GetTile(x, y).Walkable() {
				floorCount++
			}
		}
	}
	if floorCount == 0 {
		t.Fatal("expected some walkable tiles inside the stamped room")
	}
	if guard.depth != 0 {
		t.Fatalf("depth guard should be released after StampRoom, got depth %d", guard.depth)
	}
}

func TestStampRoomRejectsNestedTemplate(t *testing.T) {
	host, bounds := hostWithRoom()
	tmpl := cellularTemplate()
	tmpl.Request.RoomTypes.Definitions = []tilemap.RoomTypeDefinition{
		{TypeID: 2, TemplateMapPath: "nested.dgmp"},
	}

	s := &Stamper{
		Generate:     func(req *tilemap.GenerateRequest, seed uint64) (*tilemap.Map, error) { return tmpl, nil },
		LoadTemplate: func(path string) (*tilemap.Map, error) { return tmpl, nil },
	}

	guard := &DepthGuard{}
	def := tilemap.RoomTypeDefinition{TypeID: 1, TemplateMapPath: "outer.dgmp"}
	if err := s.StampRoom(def, "outer.dgmp", bounds, host, 1, guard); err == nil {
		t.Fatal("expected nested template to be rejected")
	}
}

func TestDepthGuardRejectsReentry(t *testing.T) {
	g := &DepthGuard{}
	if err := g.enter(); err != nil {
		t.Fatalf("first enter: %v", err)
	}
	if err := g.enter(); err == nil {
		t.Fatal("expected re-entry to be rejected")
	}
	g.leave()
	if err := g.enter(); err != nil {
		t.Fatalf("enter after leave: %v", err)
	}
}
