package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"SignaturePad/internal/config"
	"SignaturePad/internal/record"
)

const submitTimeout = 15 * time.Second

// Submitter delivers a finalized signature to local storage or a relay host.
type Submitter func(ctx context.Context, sig record.Signature) error

type CaptureOptions struct {
	Config     config.Config
	Project    string
	RecordedBy string
	// IPAddress is stamped on signatures stored locally. A relay host
	// overwrites it with the address it sees.
	IPAddress string
	Submit    Submitter
	// Target is shown in the status bar, e.g. the relay address.
	Target string
}

// captureForm is the add-signature form: signer details, the pad and a
// status line.
type captureForm struct {
	opts  CaptureOptions
	draft *record.Draft

	pad     *SignatureWidget
	project *widget.Entry
	signer  *widget.Entry
	kind    *widget.Select
	role    *widget.Select
	serials *widget.Entry
	notes   *widget.Entry
	status  *widget.Label

	last    *record.Signature
	pending bool

	now func() time.Time
	run func(fn func())
	do  func(fn func())
}

func newCaptureForm(opts CaptureOptions) *captureForm {
	f := &captureForm{
		opts:  opts,
		draft: record.NewDraft(opts.Config.Field.Name),
		now:   time.Now,
		run:   func(fn func()) { go fn() },
		do:    fyne.Do,
	}
	f.draft.RecordedBy = opts.RecordedBy

	f.pad = NewSignatureWidget(f.draft, opts.Config.PadConfig(false))
	f.project = widget.NewEntry()
	f.project.SetPlaceHolder("Project reference")
	f.project.SetText(opts.Project)
	f.signer = widget.NewEntry()
	f.signer.SetPlaceHolder("Full name")

	typeLabels := make([]string, len(record.SignatureTypes))
	for i, t := range record.SignatureTypes {
		typeLabels[i] = t.Label()
	}
	f.kind = widget.NewSelect(typeLabels, nil)
	f.kind.SetSelected(f.draft.Type.Label())

	roleLabels := make([]string, len(record.Roles))
	for i, r := range record.Roles {
		roleLabels[i] = r.Label()
	}
	f.role = widget.NewSelect(roleLabels, nil)
	f.role.SetSelected(f.draft.Role.Label())

	f.serials = widget.NewEntry()
	f.serials.SetPlaceHolder("Comma separated")
	f.notes = widget.NewMultiLineEntry()
	f.notes.SetMinRowsVisible(2)

	f.status = widget.NewLabel("Ready")
	if opts.Target != "" {
		f.status.SetText("Ready, sending to " + opts.Target)
	}
	return f
}

func (f *captureForm) content(win fyne.Window) fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("Project", f.project),
		widget.NewFormItem("Signer", f.signer),
		widget.NewFormItem("Type", f.kind),
		widget.NewFormItem("Role", f.role),
		widget.NewFormItem("Serials", f.serials),
		widget.NewFormItem("Notes", f.notes),
	)
	toolbar := NewToolbar(Actions{
		Clear:  f.pad.Clear,
		Submit: f.submit,
		Export: func() {
			if sig, ok := f.exportTarget(); ok {
				exportReceipt(win, sig)
			}
		},
	})
	body := container.NewVBox(form, widget.NewLabel("Sign below"), f.pad)
	return container.NewBorder(toolbar, f.status, nil, nil, container.NewPadded(body))
}

// finalize copies the form inputs onto the draft and validates it.
func (f *captureForm) finalize() (record.Signature, error) {
	f.draft.Project = f.project.Text
	f.draft.SignerName = f.signer.Text
	f.draft.Notes = strings.TrimSpace(f.notes.Text)
	f.draft.Serials = splitSerials(f.serials.Text)

	t, err := record.ParseSignatureType(f.kind.Selected)
	if err != nil {
		return record.Signature{}, err
	}
	f.draft.Type = t
	r, err := record.ParseRole(f.role.Selected)
	if err != nil {
		return record.Signature{}, err
	}
	f.draft.Role = r
	return f.draft.Finalize(f.now(), f.opts.IPAddress)
}

func (f *captureForm) submit() {
	if f.pending {
		return
	}
	sig, err := f.finalize()
	if err != nil {
		f.status.SetText(err.Error())
		return
	}
	if f.opts.Submit == nil {
		f.status.SetText("Nowhere to send signatures")
		return
	}
	f.pending = true
	f.status.SetText("Submitting...")
	sent := f.snapshot()
	f.run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		err := f.opts.Submit(ctx, sig)
		f.do(func() { f.submitted(sig, sent, err) })
	})
}

// formState is what the form showed when a signature was submitted.
type formState struct {
	revision uint64
	signer   string
	serials  string
	notes    string
}

func (f *captureForm) snapshot() formState {
	return formState{
		revision: f.draft.Revision(),
		signer:   f.signer.Text,
		serials:  f.serials.Text,
		notes:    f.notes.Text,
	}
}

func (f *captureForm) submitted(sig record.Signature, sent formState, err error) {
	f.pending = false
	if err != nil {
		log.Printf("[UI] Submit %s failed: %v", sig.ID, err)
		f.status.SetText(fmt.Sprintf("Submit failed: %v", err))
		return
	}
	f.last = &sig
	f.status.SetText("Saved " + sig.DisplayName())
	f.reset(sent)
}

// reset clears the inputs that still hold the submitted values. Anything
// entered or drawn while the submit was in flight is kept.
func (f *captureForm) reset(sent formState) {
	if f.signer.Text == sent.signer {
		f.signer.SetText("")
	}
	if f.serials.Text == sent.serials {
		f.serials.SetText("")
	}
	if f.notes.Text == sent.notes {
		f.notes.SetText("")
	}
	if f.draft.Revision() == sent.revision {
		f.pad.Clear()
	}
}

// exportTarget is the current draft when it is complete, otherwise the
// last submitted signature.
func (f *captureForm) exportTarget() (record.Signature, bool) {
	sig, err := f.finalize()
	if err == nil {
		return sig, true
	}
	if f.last != nil {
		return *f.last, true
	}
	f.status.SetText(err.Error())
	return record.Signature{}, false
}

func splitSerials(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RunCapture opens the capture window and blocks until it is closed.
func RunCapture(opts CaptureOptions) {
	a := app.New()
	win := a.NewWindow("Signature Pad")
	win.Resize(fyne.NewSize(720, 600))

	f := newCaptureForm(opts)
	win.SetContent(f.content(win))
	win.ShowAndRun()
}
