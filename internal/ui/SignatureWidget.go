package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"SignaturePad/internal/record"
	"SignaturePad/internal/signature"
)

// SignatureWidget hosts a signature pad in a Fyne window.
type SignatureWidget struct {
	widget.BaseWidget
	pad      *signature.Pad
	height   float32
	listener signature.Listener
	raster   *canvas.Raster

	last    fyne.Position
	hasLast bool
}

var _ fyne.Widget = (*SignatureWidget)(nil)
var _ fyne.Draggable = (*SignatureWidget)(nil)
var _ desktop.Mouseable = (*SignatureWidget)(nil)
var _ desktop.Hoverable = (*SignatureWidget)(nil)
var _ mobile.Touchable = (*SignatureWidget)(nil)
var _ signature.Element = (*SignatureWidget)(nil)

// NewSignatureWidget binds a pad to rec. Stored images are decoded off the
// UI goroutine and painted back through fyne.Do.
func NewSignatureWidget(rec record.Record, cfg signature.Config) *SignatureWidget {
	w := &SignatureWidget{}
	w.pad = signature.New(rec, cfg, signature.Options{
		Go:       func(fn func()) { go fn() },
		Dispatch: fyne.Do,
	})
	w.height = float32(cfg.Height)
	if w.height <= 0 {
		w.height = signature.DefaultHeight
	}
	w.ExtendBaseWidget(w)
	return w
}

// Pad returns the underlying pad.
func (w *SignatureWidget) Pad() *signature.Pad { return w.pad }

// Clear erases the drawing and clears the bound field.
func (w *SignatureWidget) Clear() { w.pad.Clear() }

// Release unmounts the pad. The widget mounts again on its next layout.
func (w *SignatureWidget) Release() { w.pad.Unmount() }

// --- signature.Element ---

func (w *SignatureWidget) Attached() bool {
	a := fyne.CurrentApp()
	return a != nil && a.Driver().CanvasForObject(w) != nil
}

func (w *SignatureWidget) Rect() signature.Rect {
	pos := fyne.NewPos(0, 0)
	if a := fyne.CurrentApp(); a != nil {
		pos = a.Driver().AbsolutePositionForObject(w)
	}
	size := w.Size()
	return signature.Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

func (w *SignatureWidget) ContainerWidth() float32 {
	return w.Size().Width
}

func (w *SignatureWidget) Attach(l signature.Listener) func() {
	w.listener = l
	return func() {
		if w.listener == l {
			w.listener = nil
		}
	}
}

func (w *SignatureWidget) Invalidate() {
	if w.raster != nil {
		w.raster.Refresh()
	}
}

// --- input ---

func (w *SignatureWidget) mouse(phase signature.MousePhase, abs fyne.Position) {
	if w.listener == nil {
		return
	}
	if phase == signature.MouseMove {
		if w.hasLast && w.last == abs {
			return
		}
		w.last, w.hasLast = abs, true
	} else {
		w.hasLast = false
	}
	w.listener.HandleMouse(signature.MouseEvent{Phase: phase, ClientX: abs.X, ClientY: abs.Y})
}

func (w *SignatureWidget) touch(phase signature.TouchPhase, e *mobile.TouchEvent) {
	if w.listener == nil {
		return
	}
	ev := &signature.TouchEvent{Phase: phase}
	if phase == signature.TouchStart || phase == signature.TouchMove {
		ev.Touches = []signature.Touch{{ClientX: e.AbsolutePosition.X, ClientY: e.AbsolutePosition.Y}}
	}
	w.hasLast = false
	w.listener.HandleTouch(ev)
}

func (w *SignatureWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		w.mouse(signature.MouseDown, e.AbsolutePosition)
	}
}

func (w *SignatureWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		w.mouse(signature.MouseUp, e.AbsolutePosition)
	}
}

func (w *SignatureWidget) MouseIn(*desktop.MouseEvent) {}

func (w *SignatureWidget) MouseMoved(e *desktop.MouseEvent) {
	w.mouse(signature.MouseMove, e.AbsolutePosition)
}

func (w *SignatureWidget) MouseOut() {
	w.mouse(signature.MouseLeave, fyne.Position{})
}

// Dragged carries pointer motion while a button or finger is down.
func (w *SignatureWidget) Dragged(e *fyne.DragEvent) {
	w.mouse(signature.MouseMove, e.AbsolutePosition)
}

func (w *SignatureWidget) DragEnd() {
	w.mouse(signature.MouseUp, fyne.Position{})
}

func (w *SignatureWidget) TouchDown(e *mobile.TouchEvent) {
	w.touch(signature.TouchStart, e)
}

func (w *SignatureWidget) TouchUp(e *mobile.TouchEvent) {
	w.touch(signature.TouchEnd, e)
}

func (w *SignatureWidget) TouchCancel(e *mobile.TouchEvent) {
	w.touch(signature.TouchCancel, e)
}

// --- rendering ---

func (w *SignatureWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &signatureRenderer{widget: w}
	r.background = canvas.NewRectangle(color.White)
	r.border = canvas.NewRectangle(color.Transparent)
	r.border.StrokeColor = color.Gray{Y: 180}
	r.border.StrokeWidth = 1
	w.raster = canvas.NewRaster(w.draw)
	r.raster = w.raster
	return r
}

func (w *SignatureWidget) draw(_, _ int) image.Image {
	if img := w.pad.Image(); img != nil {
		return img
	}
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

type signatureRenderer struct {
	widget     *SignatureWidget
	background *canvas.Rectangle
	raster     *canvas.Raster
	border     *canvas.Rectangle
}

func (r *signatureRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.raster, r.border}
}

// Layout mounts the pad the first time the widget gets a real size.
func (r *signatureRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.border.Resize(size)
	if size.Width > 0 && !r.widget.pad.Mounted() {
		r.widget.pad.Mount(r.widget)
	}
	if w, h := r.widget.pad.Size(); w > 0 {
		r.raster.Resize(fyne.NewSize(float32(w), float32(h)))
	} else {
		r.raster.Resize(size)
	}
}

func (r *signatureRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, r.widget.height)
}

func (r *signatureRenderer) Refresh() {
	r.raster.Refresh()
	canvas.Refresh(r.widget)
}

func (r *signatureRenderer) Destroy() {
	r.widget.pad.Unmount()
}
