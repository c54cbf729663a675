// Package geometry holds the value types used to outline ayahs on a page image.
package geometry

// Rect is an axis-aligned rectangle in page pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) MinX() int { return r.X }
func (r Rect) MinY() int { return r.Y }
func (r Rect) MaxX() int { return r.X + r.Width }
func (r Rect) MaxY() int { return r.Y + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Merge returns the smallest rectangle containing both a and b.
func Merge(a, b Rect) Rect {
	minX, minY := min(a.MinX(), b.MinX()), min(a.MinY(), b.MinY())
	maxX, maxY := max(a.MaxX(), b.MaxX()), max(a.MaxY(), b.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Box is the glyph bounding box of one ayah fragment on one line.
type Box struct {
	Page     int
	Line     int
	Sura     int
	Ayah     int
	Position int

	MinX, MaxX int
	MinY, MaxY int
}

// Rect returns the box bounds as a Rect.
func (b Box) Rect() Rect {
	return Rect{X: b.MinX, Y: b.MinY, Width: b.MaxX - b.MinX, Height: b.MaxY - b.MinY}
}

// Engulf widens b to cover other. Page, line and ayah identity stay b's.
func (b Box) Engulf(other Box) Box {
	b.MinX = min(b.MinX, other.MinX)
	b.MaxX = max(b.MaxX, other.MaxX)
	b.MinY = min(b.MinY, other.MinY)
	b.MaxY = max(b.MaxY, other.MaxY)
	return b
}

// Union engulfs every box into the first one. It returns false for no boxes.
func Union(boxes ...Box) (Box, bool) {
	if len(boxes) == 0 {
		return Box{}, false
	}
	out := boxes[0]
	for _, b := range boxes[1:] {
		out = out.Engulf(b)
	}
	return out, true
}
