package imaging

// CoordinateSet holds the pixel coordinates of every match of one color.
//
// Xs and Ys are index-aligned and always have the same length. Entries are in
// row-major scan order: top to bottom, left to right within a row.
type CoordinateSet struct {
	Xs []int `json:"xs"`
	Ys []int `json:"ys"`
}

// Len returns the number of coordinates in the set.
func (s CoordinateSet) Len() int { return len(s.Xs) }

// Points returns the coordinates as points, in scan order.
func (s CoordinateSet) Points() []Point {
	pts := make([]Point, len(s.Xs))
	for i := range s.Xs {
		pts[i] = Point{X: s.Xs[i], Y: s.Ys[i]}
	}
	return pts
}

// FindPixels returns the coordinates of every pixel in g whose R, G and B
// channels all equal c. Alpha is ignored.
//
// Zero matches yields empty, non-nil slices. The result depends only on g and
// c, so repeated calls return identical sets.
func FindPixels(g *Grid, c Color) CoordinateSet {
	set := CoordinateSet{Xs: []int{}, Ys: []int{}}
	if g.pix == nil {
		return set
	}

	w, h := g.Width(), g.Height()
	for y := 0; y < h; y++ {
		row := g.pix.Pix[y*g.pix.Stride : y*g.pix.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3 : x*4+3]
			if p[0] == c.R && p[1] == c.G && p[2] == c.B {
				set.Xs = append(set.Xs, x)
				set.Ys = append(set.Ys, y)
			}
		}
	}
	return set
}

// CountPixels returns how many pixels of g exactly match c.
func CountPixels(g *Grid, c Color) int {
	if g.pix == nil {
		return 0
	}

	n := 0
	w, h := g.Width(), g.Height()
	for y := 0; y < h; y++ {
		row := g.pix.Pix[y*g.pix.Stride : y*g.pix.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4] == c.R && row[x*4+1] == c.G && row[x*4+2] == c.B {
				n++
			}
		}
	}
	return n
}
