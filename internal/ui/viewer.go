package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"SignaturePad/internal/config"
	"SignaturePad/internal/record"
)

// Lister is the read side of the signature store.
type Lister interface {
	List(ctx context.Context, project string) ([]record.Signature, error)
}

type ViewerOptions struct {
	Config  config.Config
	Project string
	Source  Lister
	// Select preselects the signature with this ID.
	Select string
}

// viewer lists stored signatures and shows the selected one read-only.
type viewer struct {
	cfg  config.Config
	sigs []record.Signature

	list    *widget.List
	details *widget.Label
	detail  *fyne.Container
	current *SignatureWidget
	chosen  int
}

func newViewer(cfg config.Config, sigs []record.Signature) *viewer {
	v := &viewer{cfg: cfg, sigs: sigs, chosen: -1}
	v.details = widget.NewLabel("Select a signature")
	v.details.Wrapping = fyne.TextWrapWord
	v.detail = container.NewVBox(v.details)
	v.list = widget.NewList(
		func() int { return len(v.sigs) },
		func() fyne.CanvasObject { return widget.NewLabel("signer - type") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(v.sigs[id].DisplayName())
		},
	)
	v.list.OnSelected = v.show
	return v
}

// show replaces the detail pane with a read-only pad bound to signature i.
func (v *viewer) show(i int) {
	if i < 0 || i >= len(v.sigs) {
		return
	}
	if v.current != nil {
		v.current.Release()
	}
	sig := v.sigs[i]
	v.chosen = i
	v.current = NewSignatureWidget(sig, v.cfg.PadConfig(true))
	v.details.SetText(describe(sig))
	v.detail.Objects = []fyne.CanvasObject{v.details, v.current}
	v.detail.Refresh()
}

func (v *viewer) selected() (record.Signature, bool) {
	if v.chosen < 0 {
		return record.Signature{}, false
	}
	return v.sigs[v.chosen], true
}

func (v *viewer) content(win fyne.Window) fyne.CanvasObject {
	toolbar := NewToolbar(Actions{
		Export: func() {
			if sig, ok := v.selected(); ok {
				exportReceipt(win, sig)
			}
		},
	})
	split := container.NewHSplit(v.list, container.NewPadded(v.detail))
	split.Offset = 0.3
	return container.NewBorder(toolbar, nil, nil, nil, split)
}

func describe(sig record.Signature) string {
	lines := []string{
		fmt.Sprintf("%s (%s)", sig.SignerName, sig.Role.Label()),
		sig.Type.Label(),
		sig.SignedAt.Local().Format("2006-01-02 15:04"),
	}
	if sig.Project != "" {
		lines = append(lines, "Project: "+sig.Project)
	}
	if len(sig.Serials) > 0 {
		lines = append(lines, "Serials: "+strings.Join(sig.Serials, ", "))
	}
	if sig.Notes != "" {
		lines = append(lines, sig.Notes)
	}
	return strings.Join(lines, "\n")
}

// RunViewer opens the signature browser and blocks until it is closed.
func RunViewer(opts ViewerOptions) error {
	sigs, err := opts.Source.List(context.Background(), opts.Project)
	if err != nil {
		return fmt.Errorf("loading signatures: %w", err)
	}

	a := app.New()
	win := a.NewWindow("Signatures")
	win.Resize(fyne.NewSize(960, 480))

	v := newViewer(opts.Config, sigs)
	win.SetContent(v.content(win))
	for i, sig := range sigs {
		if sig.ID == opts.Select {
			v.list.Select(i)
			break
		}
	}
	win.ShowAndRun()
	return nil
}
