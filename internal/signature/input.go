package signature

// normalizer turns mouse and touch input into the pad's start, extend
// and stop calls. One instance is created per pad and reused for every
// attach/detach pair.
type normalizer struct {
	pad *Pad
}

var _ Listener = (*normalizer)(nil)

func (n *normalizer) HandleMouse(e MouseEvent) {
	p := n.pad
	if p.cfg.ReadOnly || p.el == nil {
		return
	}
	switch e.Phase {
	case MouseDown:
		p.startStroke(p.position(e.ClientX, e.ClientY))
	case MouseMove:
		p.extendStroke(p.position(e.ClientX, e.ClientY))
	case MouseUp, MouseLeave:
		p.stopStroke()
	}
}

func (n *normalizer) HandleTouch(e *TouchEvent) {
	p := n.pad
	if e == nil || p.cfg.ReadOnly || p.el == nil {
		return
	}
	switch e.Phase {
	case TouchStart, TouchMove:
		e.PreventDefault()
		if len(e.Touches) == 0 {
			return
		}
		t := e.Touches[0]
		pos := p.position(t.ClientX, t.ClientY)
		if e.Phase == TouchStart {
			p.startStroke(pos)
		} else {
			p.extendStroke(pos)
		}
	case TouchEnd, TouchCancel:
		p.stopStroke()
	}
}

// Listener exposes the pad's input handler. Hosts that cannot route events
// through Element.Attach may call it directly; it honours read-only mode.
func (p *Pad) Listener() Listener {
	return p.listener
}
