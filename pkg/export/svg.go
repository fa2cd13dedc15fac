package export

import (
	"bytes"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/dungeoneer-go/pkg/dgerr"
	"github.com/dshills/dungeoneer-go/pkg/tilemap"
)

// SVGOptions configures the debug room-graph visualization.
type SVGOptions struct {
	PixelsPerTile int
	ShowLabels    bool
	Title         string
}

// DefaultSVGOptions returns sensible debug-view defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{PixelsPerTile: 12, ShowLabels: true, Title: "dungeon layout"}
}

// ExportSVG renders m's rooms and corridors at their real grid positions —
// unlike an abstract room-graph view, this module's rooms already carry
// real (x, y) bounds, so the debug view draws them directly instead of a
// synthetic circular layout.
func ExportSVG(m *tilemap.Map, opts SVGOptions) ([]byte, error) {
	if opts.PixelsPerTile <= 0 {
		opts.PixelsPerTile = 12
	}
	scale := opts.PixelsPerTile
	width := int(m.Width)*scale + 2*scale
	height := int(m.Height)*scale + 3*scale

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#1a1a2e")

	if opts.Title != "" {
		canvas.Text(scale, scale-scale/2, opts.Title, "fill:#e8e8e8;font-size:16px")
	}

	ox, oy := scale, scale

	for _, c := range m.Corridors {
		from := m.Rooms[c.FromRoomID].Bounds
		to := m.Rooms[c.ToRoomID].Bounds
		canvas.Line(
			ox+int(from.CenterX())*scale, oy+int(from.CenterY())*scale,
			ox+int(to.CenterX())*scale, oy+int(to.CenterY())*scale,
			"stroke:#7a7a90;stroke-width:2",
		)
	}

	for _, r := range m.Rooms {
		style := roleStyle(r.Role)
		canvas.Rect(
			ox+int(r.Bounds.X)*scale, oy+int(r.Bounds.Y)*scale,
			int(r.Bounds.Width)*scale, int(r.Bounds.Height)*scale,
			style,
		)
		if opts.ShowLabels {
			canvas.Text(
				ox+int(r.Bounds.X)*scale+4, oy+int(r.Bounds.Y)*scale+14,
				fmt.Sprintf("#%d", r.ID),
				"fill:#1a1a2e;font-size:11px",
			)
		}
	}

	for _, o := range m.EdgeOpenings {
		canvas.Circle(ox+int(o.EdgeTile.X)*scale, oy+int(o.EdgeTile.Y)*scale, scale/3, "fill:#ffd166")
	}

	canvas.End()
	return buf.Bytes(), nil
}

func roleStyle(role tilemap.RoomRole) string {
	switch role {
	case tilemap.RoleEntrance:
		return "fill:#6fcf97;stroke:#1a1a2e"
	case tilemap.RoleExit:
		return "fill:#eb5757;stroke:#1a1a2e"
	case tilemap.RoleBoss:
		return "fill:#bb6bd9;stroke:#1a1a2e"
	case tilemap.RoleTreasure:
		return "fill:#f2c94c;stroke:#1a1a2e"
	case tilemap.RoleShop:
		return "fill:#56ccf2;stroke:#1a1a2e"
	default:
		return "fill:#d4d0c4;stroke:#1a1a2e"
	}
}

// SaveSVGToFile renders m's debug view and writes it to path.
func SaveSVGToFile(m *tilemap.Map, opts SVGOptions, path string) error {
	data, err := ExportSVG(m, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return dgerr.Wrap("export.SaveSVGToFile", dgerr.IOError, err)
	}
	return nil
}
