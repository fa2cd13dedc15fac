package tilemap

// Point is a 2D integer coordinate.
type Point struct {
	X, Y int32
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y, Width, Height int32
}

// Left, Top, Right, Bottom return the rectangle's half-open bounds:
// [Left, Right) x [Top, Bottom).
func (r Rect) Left() int32   { return r.X }
func (r Rect) Top() int32    { return r.Y }
func (r Rect) Right() int32  { return r.X + r.Width }
func (r Rect) Bottom() int32 { return r.Y + r.Height }

// Contains reports whether (x,y) lies inside r, high edges exclusive.
func (r Rect) Contains(x, y int32) bool {
	return x >= r.Left() && x < r.Right() && y >= r.Top() && y < r.Bottom()
}

// Overlaps reports whether r and o share any area, high edges exclusive on
// both rectangles (half-open overlap test).
func (r Rect) Overlaps(o Rect) bool {
	if r.Right() <= o.Left() || o.Right() <= r.Left() {
		return false
	}
	if r.Bottom() <= o.Top() || o.Bottom() <= r.Top() {
		return false
	}
	return true
}

// Padded returns r grown by pad on every side.
func (r Rect) Padded(pad int32) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// OverlapsPadded reports whether r, grown by pad, overlaps o.
func (r Rect) OverlapsPadded(o Rect, pad int32) bool {
	return r.Padded(pad).Overlaps(o)
}

// CenterX, CenterY return the rectangle's integer center, floor-rounded.
func (r Rect) CenterX() int32 { return r.X + r.Width/2 }
func (r Rect) CenterY() int32 { return r.Y + r.Height/2 }

// ClampRect clamps r so it lies fully within [0,0,w,h), shrinking width and
// height as needed. A rectangle already outside the map collapses to a
// zero-sized rect at the nearest in-bounds corner.
func ClampRect(r Rect, w, h int32) Rect {
	x0 := clampInt32(r.X, 0, w)
	y0 := clampInt32(r.Y, 0, h)
	x1 := clampInt32(r.X+r.Width, 0, w)
	y1 := clampInt32(r.Y+r.Height, 0, h)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// ClampInt32 clamps an int32 to [lo,hi].
func ClampInt32(v, lo, hi int32) int32 {
	return clampInt32(v, lo, hi)
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt clamps an int to [lo,hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat clamps a float64 to [lo,hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PaintOuterWalls writes Wall on every cell of the map's four borders.
func PaintOuterWalls(m *Map) {
	w, h := m.Width, m.Height
	for x := int32(0); x < w; x++ {
		m.SetTile(x, 0, Wall)
		m.SetTile(x, h-1, Wall)
	}
	for y := int32(0); y < h; y++ {
		m.SetTile(0, y, Wall)
		m.SetTile(w-1, y, Wall)
	}
}

// PaintBrush writes tile on every in-bounds cell within Euclidean distance
// radius of (cx,cy), using a round (disc) footprint.
func PaintBrush(m *Map, cx, cy, radius int32, tile Tile) {
	if radius <= 0 {
		if m.InBounds(cx, cy) {
			m.SetTile(cx, cy, tile)
		}
		return
	}
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			x, y := cx+dx, cy+dy
			if m.InBounds(x, y) {
				m.SetTile(x, y, tile)
			}
		}
	}
}

// CorridorRouting selects how an L-shaped corridor bends between two points.
type CorridorRouting int32

const (
	RoutingRandom CorridorRouting = iota
	RoutingHorizontalFirst
	RoutingVerticalFirst
)

// CarveStraight draws a 1-tile-thin straight line of tile between two points
// that share an X or a Y coordinate; the caller must ensure exactly one axis
// differs (callers build L-paths from two CarveStraight calls).
func CarveStraight(m *Map, x0, y0, x1, y1 int32, width int32, tile Tile) {
	radius := (width - 1) / 2
	if x0 == x1 {
		lo, hi := y0, y1
		if lo > hi {
			lo, hi = hi, lo
		}
		for y := lo; y <= hi; y++ {
			PaintBrush(m, x0, y, radius, tile)
		}
		return
	}
	lo, hi := x0, x1
	if lo > hi {
		lo, hi = hi, lo
	}
	for x := lo; x <= hi; x++ {
		PaintBrush(m, x, y0, radius, tile)
	}
}

// CarveLPath draws an L-shaped corridor between two centers, bending at the
// corner chosen by routing. RoutingRandom decides the bend with a coin flip
// from r.
func CarveLPath(m *Map, x0, y0, x1, y1 int32, width int32, tile Tile, routing CorridorRouting, horizontalFirst bool) {
	switch routing {
	case RoutingHorizontalFirst:
		horizontalFirst = true
	case RoutingVerticalFirst:
		horizontalFirst = false
	case RoutingRandom:
		// horizontalFirst as supplied by the caller's coin flip.
	}

	if horizontalFirst {
		CarveStraight(m, x0, y0, x1, y0, width, tile)
		CarveStraight(m, x1, y0, x1, y1, width, tile)
	} else {
		CarveStraight(m, x0, y0, x0, y1, width, tile)
		CarveStraight(m, x0, y1, x1, y1, width, tile)
	}
}
