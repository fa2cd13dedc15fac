package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

var (
	colorVoid = color.RGBA{R: 10, G: 10, B: 14, A: 255}
	colorWall = color.RGBA{R: 60, G: 58, B: 72, A: 255}
	colorDoor = color.RGBA{R: 170, G: 130, B: 60, A: 255}
	colorFloor = color.RGBA{R: 210, G: 206, B: 196, A: 255}
)

// DefaultTypePalette assigns a deterministic color to each type_id in
// typeIDs, cycling through a fixed hue ramp. The returned map is suitable
// for both RenderPNG and BuildSideCar so the two artifacts agree.
func DefaultTypePalette(typeIDs []uint32) map[uint32]string {
	ramp := []color.RGBA{
		{R: 226, G: 97, B: 97, A: 255},
		{R: 97, G: 185, B: 226, A: 255},
		{R: 140, G: 226, B: 97, A: 255},
		{R: 226, G: 188, B: 97, A: 255},
		{R: 186, G: 97, B: 226, A: 255},
		{R: 97, G: 226, B: 200, A: 255},
	}
	palette := make(map[uint32]string, len(typeIDs))
	for i, id := range typeIDs {
		c := ramp[i%len(ramp)]
		palette[id] = fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return palette
}

// RenderPNG rasterizes m at one pixel per tile. FLOOR tiles belonging to a
// room whose type_id has a palette entry are tinted with that color instead
// of the default floor color; every other tile uses its fixed base color.
func RenderPNG(m *tilemap.Map, palette map[uint32]string) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, int(m.Width), int(m.Height)))

	roomTypeAt := roomTypeLookup(m)
	parsed := parsePalette(palette)

	for y := int32(0); y < m.Height; y++ {
		for x := int32(0); x < m.Width; x++ {
			c := baseColor(m.GetTile(x, y))
			if m.GetTile(x, y) == tilemap.Floor {
				if typeID, ok := roomTypeAt(x, y); ok {
					if tint, ok := parsed[typeID]; ok {
						c = tint
					}
				}
			}
			img.Set(int(x), int(y), c)
		}
	}
	return img, nil
}

// SavePNGToFile renders m and writes it to path as a standard RGBA8 PNG.
func SavePNGToFile(m *tilemap.Map, palette map[uint32]string, path string) error {
	img, err := RenderPNG(m, palette)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return dgerr.Wrap("export.SavePNGToFile", dgerr.IOError, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return dgerr.Wrap("export.SavePNGToFile", dgerr.IOError, err)
	}
	return nil
}

func baseColor(t tilemap.Tile) color.RGBA {
	switch t {
	case tilemap.Wall:
		return colorWall
	case tilemap.Floor:
		return colorFloor
	case tilemap.Door:
		return colorDoor
	default:
		return colorVoid
	}
}

// roomTypeLookup returns a closure resolving a tile coordinate to the
// type_id of the room containing it, if any.
func roomTypeLookup(m *tilemap.Map) func(x, y int32) (uint32, bool) {
	type span struct {
		bounds tilemap.Rect
		typeID uint32
	}
	spans := make([]span, len(m.Rooms))
	for i, r := range m.Rooms {
		spans[i] = span{bounds: r.Bounds, typeID: r.TypeID}
	}
	return func(x, y int32) (uint32, bool) {
		for _, s := range spans {
			if s.bounds.Contains(x, y) {
				return s.typeID, true
			}
		}
		return 0, false
	}
}

func parsePalette(palette map[uint32]string) map[uint32]color.RGBA {
	out := make(map[uint32]color.RGBA, len(palette))
	for id, hex := range palette {
		if c, ok := parseHexColor(hex); ok {
			out[id] = c
		}
	}
	return out
}

func parseHexColor(s string) (color.RGBA, bool) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, false
	}
	var r, g, b int
	if _, err := fmt.Sscanf(s, "#%02X%02X%02X", &r, &g, &b); err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, true
}
