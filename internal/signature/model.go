package signature

import "image/color"

// Point is a position in surface-local pixels.
type Point struct{ X, Y float32 }

// Rect is an element's bounding rectangle in client coordinates.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Session is the drawing state of a pad.
type Session struct {
	Drawing bool // between a stroke start and its stop
	Empty   bool // nothing drawn since the last clear or mount
}

type LineCap int

const (
	CapRound LineCap = iota
	CapButt
)

type LineJoin int

const (
	JoinRound LineJoin = iota
	JoinBevel
)

// Style is the pen used by a Surface.
type Style struct {
	Color color.NRGBA
	Width float32
	Cap   LineCap
	Join  LineJoin
}

// DefaultStyle is a 2px black pen with round caps and joins.
var DefaultStyle = Style{
	Color: color.NRGBA{A: 0xff},
	Width: 2,
	Cap:   CapRound,
	Join:  JoinRound,
}

type MousePhase int

const (
	MouseDown MousePhase = iota
	MouseMove
	MouseUp
	MouseLeave
)

// MouseEvent is a pointer event in client coordinates.
type MouseEvent struct {
	Phase            MousePhase
	ClientX, ClientY float32
}

type TouchPhase int

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
	TouchCancel
)

// Touch is one contact point in client coordinates.
type Touch struct {
	ClientX, ClientY float32
}

// TouchEvent carries every active contact; the first one is primary.
type TouchEvent struct {
	Phase   TouchPhase
	Touches []Touch

	defaultPrevented bool
}

// PreventDefault tells the host not to scroll or zoom for this event.
func (e *TouchEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *TouchEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}
