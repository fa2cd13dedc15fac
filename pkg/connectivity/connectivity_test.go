package connectivity

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

func buildMap(t *testing.T, rows []string) *tilemap.Map {
	t.Helper()
	h := int32(len(rows))
	w := int32(len(rows[0]))
	m := &tilemap.Map{}
	m.Init(w, h, tilemap.Wall)
	for y, row := range rows {
		for x, c := range row {
			if c == '.' {
				m.SetTile(int32(x), int32(y), tilemap.Floor)
			}
		}
	}
	return m
}

func TestAnalyzeTopDownSingleComponent(t *testing.T) {
	m := buildMap(t, []string{
		"#####",
		"#...#",
		"#.#.#",
		"#...#",
		"#####",
	})
	r, err := AnalyzeTopDown(m)
	if err != nil {
		t.Fatalf("AnalyzeTopDown: %v", err)
	}
	if !r.Connected || r.ComponentCount != 1 {
		t.Fatalf("expected single connected component, got count=%d", r.ComponentCount)
	}
}

func TestAnalyzeTopDownTwoComponents(t *testing.T) {
	m := buildMap(t, []string{
		"#####",
		"#.#.#",
		"#.#.#",
		"#.#.#",
		"#####",
	})
	r, err := AnalyzeTopDown(m)
	if err != nil {
		t.Fatalf("AnalyzeTopDown: %v", err)
	}
	if r.Connected || r.ComponentCount != 2 {
		t.Fatalf("expected 2 components, got %d", r.ComponentCount)
	}
}

func TestEnforceSingleConnectedRegionRetainsLargestAndWallsRest(t *testing.T) {
	m := buildMap(t, []string{
		"###########",
		"#.#.......#",
		"#.#.......#",
		"#.#.......#",
		"###########",
	})
	r, err := EnforceSingleConnectedRegion(m)
	if err != nil {
		t.Fatalf("EnforceSingleConnectedRegion: %v", err)
	}
	if r.ComponentCount != 1 {
		t.Fatalf("expected single-component result, got count=%d", r.ComponentCount)
	}
	// The smaller left-hand column must have been walled off, not connected to.
	if m.GetTile(1, 1) != tilemap.Wall {
		t.Fatalf("expected isolated smaller component to be walled off, got %v", m.GetTile(1, 1))
	}
	if m.GetTile(5, 1) != tilemap.Floor {
		t.Fatalf("expected largest component to remain floor, got %v", m.GetTile(5, 1))
	}
}

func TestEnforceSideViewGroundedConnectivityWallsOffSmallerIsland(t *testing.T) {
	// Two platforms resting on solid ground, separated by a gap too wide to
	// jump (maxJumpGap=2): an 8-tile platform at x=0..7 and a 2-tile island
	// at x=12..13. Both are individually "grounded" (each sits on a wall),
	// but only the larger one should survive enforcement.
	m := buildMap(t, []string{
		"##############",
		"........####..",
		"##############",
	})
	r, err := EnforceSideViewGroundedConnectivity(m, 2, 2)
	if err != nil {
		t.Fatalf("EnforceSideViewGroundedConnectivity: %v", err)
	}
	if r.ComponentCount != 1 {
		t.Fatalf("expected the smaller island to be walled off leaving one component, got %d", r.ComponentCount)
	}
	if m.GetTile(12, 1) != tilemap.Wall || m.GetTile(13, 1) != tilemap.Wall {
		t.Fatalf("expected the smaller island to be walled off, got (%v, %v)", m.GetTile(12, 1), m.GetTile(13, 1))
	}
	if m.GetTile(0, 1) != tilemap.Floor || m.GetTile(7, 1) != tilemap.Floor {
		t.Fatalf("expected the larger platform to remain floor")
	}
}

// TestProperty_EnforceSingleConnectedRegionConverges throws a random
// scattering of disconnected floor blocks at EnforceSingleConnectedRegion and
// checks it always ends with a single component, regardless of how many
// blocks it started with or where they landed.
func TestProperty_EnforceSingleConnectedRegionConverges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.Int32Range(12, 40).Draw(t, "width")
		height := rapid.Int32Range(12, 40).Draw(t, "height")
		blockCount := rapid.IntRange(2, 10).Draw(t, "blockCount")

		m := &tilemap.Map{}
		m.Init(width, height, tilemap.Wall)

		for i := 0; i < blockCount; i++ {
			bw := rapid.Int32Range(1, 3).Draw(t, "bw")
			bh := rapid.Int32Range(1, 3).Draw(t, "bh")
			bx := rapid.Int32Range(0, width-bw-1).Draw(t, "bx")
			by := rapid.Int32Range(0, height-bh-1).Draw(t, "by")
			for y := by; y < by+bh; y++ {
				for x := bx; x < bx+bw; x++ {
					m.SetTile(x, y, tilemap.Floor)
				}
			}
		}

		before, err := AnalyzeTopDown(m)
		if err != nil {
			t.Fatalf("AnalyzeTopDown: %v", err)
		}
		if before.ComponentCount == 0 {
			return
		}

		r, err := EnforceSingleConnectedRegion(m)
		if err != nil {
			t.Fatalf("EnforceSingleConnectedRegion: %v", err)
		}
		if r.ComponentCount != 1 {
			t.Fatalf("expected convergence to one component from %d, got count=%d", before.ComponentCount, r.ComponentCount)
		}
	})
}
