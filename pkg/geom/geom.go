// Package geom provides the small set of planar types shared by the layer
// store, the viewport and the export path.
//
// All values are float64 and carry no unit of their own: whether a [Point]
// is in screen space or content space is decided by the caller.
package geom

import "math"

// Point is a position or a delta in the plane.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Div returns p divided by k.
func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
// A Rect with non-positive width or height contains no points.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.Width/2, r.Y + r.Height/2} }

// Area returns Width*Height, or zero for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}
