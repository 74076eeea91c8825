// Package signature implements a freehand signature pad: a fixed-size
// raster surface that is drawn on with mouse, stylus or touch input and
// persisted as a base64 PNG payload in a record field.
//
// A Pad is owned by a single goroutine. Hosts deliver input and lifecycle
// calls on that goroutine; the only asynchronous step is decoding a
// previously stored image, whose result is handed back through
// Options.Dispatch.
package signature

import (
	"image"
	"log"
	"math"

	"SignaturePad/internal/payload"
	"SignaturePad/internal/record"
)

const (
	DefaultHeight = 200
	DefaultWidth  = 600
)

// Element is the host object a pad draws into.
type Element interface {
	// Attached reports whether the element is part of a live window.
	Attached() bool
	// Rect returns the current bounding rectangle in client coordinates.
	Rect() Rect
	// ContainerWidth is the measured width of the element's container.
	ContainerWidth() float32
	// Attach routes the element's input events to l until detach is called.
	Attach(l Listener) (detach func())
	// Invalidate asks the host to repaint the element.
	Invalidate()
}

// Listener receives raw input from an Element.
type Listener interface {
	HandleMouse(e MouseEvent)
	HandleTouch(e *TouchEvent)
}

// Config binds a pad to a record field.
type Config struct {
	Field        string
	ReadOnly     bool
	Style        Style
	Height       int
	DefaultWidth int
}

// Options hooks a pad into its host's scheduling and diagnostics.
type Options struct {
	// Go starts background work. Defaults to running fn inline.
	Go func(fn func())
	// Dispatch runs fn on the goroutine that owns the pad. Defaults to
	// running fn inline.
	Dispatch func(fn func())
	// OnError receives restoration failures.
	OnError func(err error)
}

// Pad is the signature capture component.
type Pad struct {
	cfg    Config
	record record.Record
	opts   Options

	el         Element
	surface    *Surface
	session    Session
	listener   *normalizer
	teardown   []func()
	mounted    bool
	generation uint64
}

// New creates an unmounted pad bound to rec's cfg.Field.
func New(rec record.Record, cfg Config, opts Options) *Pad {
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.DefaultWidth <= 0 {
		cfg.DefaultWidth = DefaultWidth
	}
	if cfg.Style == (Style{}) {
		cfg.Style = DefaultStyle
	}
	if opts.Go == nil {
		opts.Go = func(fn func()) { fn() }
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { fn() }
	}
	if opts.OnError == nil {
		opts.OnError = func(err error) {
			log.Printf("[PAD] %v", err)
		}
	}
	p := &Pad{
		cfg:     cfg,
		record:  rec,
		opts:    opts,
		session: Session{Empty: true},
	}
	p.listener = &normalizer{pad: p}
	return p
}

func (p *Pad) ReadOnly() bool { return p.cfg.ReadOnly }

func (p *Pad) Mounted() bool { return p.mounted }

// Session returns a copy of the drawing state.
func (p *Pad) Session() Session { return p.session }

// Image returns the surface pixels, or nil when the pad is not mounted.
func (p *Pad) Image() image.Image {
	if p.surface == nil {
		return nil
	}
	return p.surface.Image()
}

// Size returns the surface size in pixels, or zero when not mounted.
func (p *Pad) Size() (width, height int) {
	if p.surface == nil {
		return 0, 0
	}
	return p.surface.Width(), p.surface.Height()
}

// Mount configures a fresh surface on el, attaches input handling unless
// the pad is read-only, and restores the stored signature. It does nothing
// if el is not attached yet or the pad is already mounted.
func (p *Pad) Mount(el Element) {
	if p.mounted || el == nil || !el.Attached() {
		return
	}
	width := int(math.Round(float64(el.ContainerWidth())))
	if width <= 0 {
		width = p.cfg.DefaultWidth
	}
	p.el = el
	p.surface = NewSurface(width, p.cfg.Height, p.cfg.Style)
	p.session = Session{Empty: true}
	p.mounted = true
	p.generation++

	if !p.cfg.ReadOnly {
		p.teardown = append(p.teardown, el.Attach(p.listener))
	}
	p.LoadExisting()
}

// Unmount detaches every handler and discards the surface. It is safe to
// call more than once and before Mount ever succeeded.
func (p *Pad) Unmount() {
	for i := len(p.teardown) - 1; i >= 0; i-- {
		if p.teardown[i] != nil {
			p.teardown[i]()
		}
	}
	p.teardown = nil
	if !p.mounted {
		return
	}
	p.mounted = false
	p.generation++
	p.surface = nil
	p.el = nil
	p.session.Drawing = false
}

// position converts client coordinates to surface coordinates using the
// element's current bounds.
func (p *Pad) position(clientX, clientY float32) Point {
	r := p.el.Rect()
	return Point{X: clientX - r.X, Y: clientY - r.Y}
}

func (p *Pad) startStroke(pos Point) {
	if p.cfg.ReadOnly || p.surface == nil {
		return
	}
	p.session.Drawing = true
	p.session.Empty = false
	p.surface.BeginPath(pos)
}

func (p *Pad) extendStroke(pos Point) {
	if !p.session.Drawing || p.cfg.ReadOnly || p.surface == nil {
		return
	}
	p.surface.LineTo(pos)
	p.invalidate()
}

func (p *Pad) stopStroke() {
	if !p.session.Drawing {
		return
	}
	p.session.Drawing = false
	if p.surface != nil {
		p.surface.ClosePath()
	}
	p.Save()
}

// Save encodes the surface and writes the payload to the bound field.
func (p *Pad) Save() {
	if p.cfg.ReadOnly || p.surface == nil {
		return
	}
	body, err := payload.Encode(p.surface.Image())
	if err != nil {
		log.Printf("[PAD] Failed to encode signature: %v", err)
		return
	}
	p.record.Update(p.cfg.Field, record.Of(body))
}

// Clear erases the surface and writes the absent sentinel to the field.
func (p *Pad) Clear() {
	if p.cfg.ReadOnly || p.surface == nil {
		return
	}
	p.surface.Clear()
	p.session.Empty = true
	p.record.Update(p.cfg.Field, record.Absent)
	p.invalidate()
}

// LoadExisting restores the field's payload onto the surface. Decoding
// runs through Options.Go; the result is applied through Options.Dispatch
// only if the pad is still on the same mount.
func (p *Pad) LoadExisting() {
	v := p.record.Value(p.cfg.Field)
	if v.IsAbsent() {
		p.session.Empty = true
		return
	}
	if p.surface == nil {
		return
	}
	gen := p.generation
	data := v.Data
	p.opts.Go(func() {
		img, err := payload.Decode(data)
		p.opts.Dispatch(func() {
			p.finishRestore(gen, img, err)
		})
	})
}

func (p *Pad) finishRestore(gen uint64, img image.Image, err error) {
	if !p.mounted || gen != p.generation || p.surface == nil {
		return
	}
	if err != nil {
		p.opts.OnError(err)
		p.session.Empty = true
		return
	}
	p.surface.Paint(img)
	p.session.Empty = false
	p.invalidate()
}

func (p *Pad) invalidate() {
	if p.el != nil {
		p.el.Invalidate()
	}
}
