package pdf

// Layout is the fixed vertical page geometry, in mm.
type Layout struct {
	Top       float64 // cursor position after a page break
	Threshold float64 // a cursor below this line moves the next block to a new page
}

// A4 matches portrait A4 with 20mm top and a break line 27mm above the bottom edge.
var A4 = Layout{Top: 20, Threshold: 270}

// Cursor is the running write position.
type Cursor struct {
	Y    float64
	Page int
}

// Place reserves a block of height h. It returns the y the block starts at,
// the cursor after it, and whether a page break happened first.
func (l Layout) Place(c Cursor, h float64) (at float64, next Cursor, broke bool) {
	if c.Y > l.Threshold {
		c = Cursor{Y: l.Top, Page: c.Page + 1}
		broke = true
	}
	return c.Y, Cursor{Y: c.Y + h, Page: c.Page}, broke
}

// Skip advances the cursor by d without drawing; it never breaks.
func (c Cursor) Skip(d float64) Cursor {
	c.Y += d
	return c
}
