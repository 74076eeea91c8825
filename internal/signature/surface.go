package signature

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// Surface is the raster a pad draws on. Pixels are kept unpremultiplied so
// that an encoded surface decodes back to the same bytes.
type Surface struct {
	img   *image.NRGBA
	style Style
	src   *image.Uniform
	z     *vector.Rasterizer

	pen      Point
	inPath   bool
	segments int
	dir      Point // unit direction of the last segment
}

// NewSurface allocates a transparent w x h surface.
func NewSurface(width, height int, style Style) *Surface {
	if style.Width <= 0 {
		style.Width = DefaultStyle.Width
	}
	return &Surface{
		img:   image.NewNRGBA(image.Rect(0, 0, width, height)),
		style: style,
		src:   image.NewUniform(style.Color),
		z:     vector.NewRasterizer(width, height),
	}
}

func (s *Surface) Width() int { return s.img.Bounds().Dx() }

func (s *Surface) Height() int { return s.img.Bounds().Dy() }

func (s *Surface) Style() Style { return s.style }

// Image returns the live pixel buffer.
func (s *Surface) Image() *image.NRGBA {
	return s.img
}

// Blank reports whether every pixel is fully transparent.
func (s *Surface) Blank() bool {
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// BeginPath starts a new path at p without drawing anything.
func (s *Surface) BeginPath(p Point) {
	s.pen = p
	s.inPath = true
	s.segments = 0
	s.dir = Point{}
}

// LineTo extends the current path to p and paints the new segment right
// away. Without a current path it behaves like BeginPath. Only the part of
// the segment that can touch the surface is rasterized.
func (s *Surface) LineTo(p Point) {
	if !s.inPath {
		s.BeginPath(p)
		return
	}
	a := s.pen
	s.pen = p
	half := s.style.Width / 2

	if !finite(a) || !finite(p) {
		s.segments++
		return
	}
	dx, dy := float64(p.X)-float64(a.X), float64(p.Y)-float64(a.Y)
	length := math.Hypot(dx, dy)
	var dir Point
	if length > 0 {
		dir = Point{X: float32(dx / length), Y: float32(dy / length)}
	}

	reach := s.reach(half)
	ca, cp, ok := reach.clip(a, p)
	var bbox image.Rectangle
	if ok {
		bbox = segmentBounds(ca, cp, half).Intersect(s.img.Bounds())
	}
	if bbox.Empty() {
		if length > 0 {
			s.dir = dir
		}
		s.segments++
		return
	}
	s.z.Reset(bbox.Dx(), bbox.Dy())
	origin := Point{X: float32(bbox.Min.X), Y: float32(bbox.Min.Y)}
	startVisible := reach.contains(a)

	if length > 0 {
		n := Point{X: -dir.Y * half, Y: dir.X * half}
		s.polygon(origin,
			Point{ca.X + n.X, ca.Y + n.Y},
			Point{cp.X + n.X, cp.Y + n.Y},
			Point{cp.X - n.X, cp.Y - n.Y},
			Point{ca.X - n.X, ca.Y - n.Y},
		)
		if s.segments > 0 && s.style.Join == JoinBevel && startVisible {
			prev := Point{X: -s.dir.Y * half, Y: s.dir.X * half}
			s.polygon(origin, a, Point{a.X + prev.X, a.Y + prev.Y}, Point{a.X + n.X, a.Y + n.Y})
			s.polygon(origin, a, Point{a.X - prev.X, a.Y - prev.Y}, Point{a.X - n.X, a.Y - n.Y})
		}
		s.dir = dir
	}

	round := s.style.Cap == CapRound
	if s.segments > 0 {
		round = s.style.Join == JoinRound
	}
	if round && startVisible {
		s.circle(origin, a, half)
	}
	if (s.style.Cap == CapRound || s.style.Join == JoinRound) && reach.contains(p) {
		s.circle(origin, p, half)
	}
	s.segments++

	s.z.Draw(s.img, bbox, s.src, image.Point{})
}

// ClosePath ends the current path. Nothing is painted.
func (s *Surface) ClosePath() {
	s.inPath = false
	s.segments = 0
}

// Clear erases every pixel.
func (s *Surface) Clear() {
	clear(s.img.Pix)
	s.ClosePath()
}

// Paint replaces the surface with src scaled to the surface size. An
// NRGBA image of the same size is copied byte for byte.
func (s *Surface) Paint(src image.Image) {
	s.Clear()
	sb := src.Bounds()
	db := s.img.Bounds()
	if sb.Size() == db.Size() {
		if n, ok := src.(*image.NRGBA); ok {
			rowLen := 4 * sb.Dx()
			for y := 0; y < sb.Dy(); y++ {
				from := n.PixOffset(sb.Min.X, sb.Min.Y+y)
				copy(s.img.Pix[y*s.img.Stride:y*s.img.Stride+rowLen], n.Pix[from:from+rowLen])
			}
			return
		}
		draw.Draw(s.img, db, src, sb.Min, draw.Src)
		return
	}
	xdraw.BiLinear.Scale(s.img, db, src, sb, xdraw.Src, nil)
}

// polygon adds a closed polygon to the rasterizer, always with the same
// winding so overlapping shapes accumulate as a union.
func (s *Surface) polygon(origin Point, pts ...Point) {
	var area float32
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area > 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	s.z.MoveTo(pts[0].X-origin.X, pts[0].Y-origin.Y)
	for _, p := range pts[1:] {
		s.z.LineTo(p.X-origin.X, p.Y-origin.Y)
	}
	s.z.ClosePath()
}

// circle adds a disc of radius r centred on c, wound like polygon's output.
func (s *Surface) circle(origin, c Point, r float32) {
	x, y := c.X-origin.X, c.Y-origin.Y
	k := r * kappa
	s.z.MoveTo(x+r, y)
	s.z.CubeTo(x+r, y-k, x+k, y-r, x, y-r)
	s.z.CubeTo(x-k, y-r, x-r, y-k, x-r, y)
	s.z.CubeTo(x-r, y+k, x-k, y+r, x, y+r)
	s.z.CubeTo(x+k, y+r, x+r, y+k, x+r, y)
	s.z.ClosePath()
}

// area is an axis-aligned rectangle in surface coordinates.
type area struct {
	minX, minY, maxX, maxY float64
}

// reach is the surface grown by the pen radius and a pixel of margin. A
// stroke centre line outside it cannot paint any pixel.
func (s *Surface) reach(half float32) area {
	m := float64(half) + 1
	b := s.img.Bounds()
	return area{
		minX: float64(b.Min.X) - m,
		minY: float64(b.Min.Y) - m,
		maxX: float64(b.Max.X) + m,
		maxY: float64(b.Max.Y) + m,
	}
}

func (r area) contains(p Point) bool {
	x, y := float64(p.X), float64(p.Y)
	return x >= r.minX && x <= r.maxX && y >= r.minY && y <= r.maxY
}

// clip returns the part of a-b inside r (Liang-Barsky).
func (r area) clip(a, b Point) (Point, Point, bool) {
	ax, ay := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X)-ax, float64(b.Y)-ay
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, ax - r.minX},
		{dx, r.maxX - ax},
		{-dy, ay - r.minY},
		{dy, r.maxY - ay},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = min(t1, t)
		}
	}
	at := func(t float64) Point {
		return Point{X: float32(ax + t*dx), Y: float32(ay + t*dy)}
	}
	return at(t0), at(t1), true
}

func finite(p Point) bool {
	x, y := float64(p.X), float64(p.Y)
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

func segmentBounds(a, b Point, half float32) image.Rectangle {
	pad := half + 1
	minX := math.Floor(float64(min(a.X, b.X) - pad))
	minY := math.Floor(float64(min(a.Y, b.Y) - pad))
	maxX := math.Ceil(float64(max(a.X, b.X) + pad))
	maxY := math.Ceil(float64(max(a.Y, b.Y) + pad))
	return image.Rect(int(minX), int(minY), int(maxX), int(maxY))
}
