package export

import (
	"encoding/json"
	"os"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// LegendEntry names one tile value for the JSON legend.
type LegendEntry struct {
	Tile string `json:"tile"`
	Name string `json:"name"`
}

// TypePaletteEntry reports the color and tile count assigned to one
// room type, keyed off the same TypeColor table PNG export paints with.
type TypePaletteEntry struct {
	TypeID    uint32 `json:"typeId"`
	Color     string `json:"color"`
	RoomCount int    `json:"roomCount"`
	TileCount int    `json:"tileCount"`
}

// SideCar is the complete JSON companion to a persisted map (spec §6.5).
type SideCar struct {
	Legend       []LegendEntry             `json:"legend"`
	TypePalette  []TypePaletteEntry        `json:"typePalette"`
	Metrics      tilemap.Metrics           `json:"metrics"`
	Rooms        []tilemap.Room            `json:"rooms"`
	Corridors    []tilemap.Corridor        `json:"corridors"`
	RoomEntrances []tilemap.RoomEntrance   `json:"roomEntrances"`
	EdgeOpenings []tilemap.EdgeOpening     `json:"edgeOpenings"`
	Snapshot     tilemap.GenerateRequest   `json:"snapshot"`
}

var tileLegend = []LegendEntry{
	{Tile: "VOID", Name: "uninitialized"},
	{Tile: "WALL", Name: "solid"},
	{Tile: "FLOOR", Name: "walkable"},
	{Tile: "DOOR", Name: "controlled passage"},
}

// BuildSideCar assembles the JSON side-car document for m, using palette to
// color and count each room type's tiles. palette may be nil, in which case
// TypePalette is empty.
func BuildSideCar(m *tilemap.Map, palette map[uint32]string) SideCar {
	sc := SideCar{
		Legend:        tileLegend,
		Metrics:       m.Metrics,
		Rooms:         m.Rooms,
		Corridors:     m.Corridors,
		RoomEntrances: m.RoomEntrances,
		EdgeOpenings:  m.EdgeOpenings,
		Snapshot:      m.Request,
	}
	if len(palette) == 0 {
		return sc
	}

	counts := make(map[uint32]int, len(palette))
	tiles := make(map[uint32]int, len(palette))
	for _, r := range m.Rooms {
		counts[r.TypeID]++
		tiles[r.TypeID] += int(r.Bounds.Width) * int(r.Bounds.Height)
	}
	for typeID, color := range palette {
		sc.TypePalette = append(sc.TypePalette, TypePaletteEntry{
			TypeID:    typeID,
			Color:     color,
			RoomCount: counts[typeID],
			TileCount: tiles[typeID],
		})
	}
	return sc
}

// ExportJSON serializes the side-car document with two-space indentation,
// matching the teacher's ExportJSON contract.
func ExportJSON(sc SideCar) ([]byte, error) {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return nil, dgerr.Wrap("export.ExportJSON", dgerr.IOError, err)
	}
	return data, nil
}

// SaveJSONToFile writes the side-car document to path with 0644 permissions.
func SaveJSONToFile(sc SideCar, path string) error {
	data, err := ExportJSON(sc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return dgerr.Wrap("export.SaveJSONToFile", dgerr.IOError, err)
	}
	return nil
}
