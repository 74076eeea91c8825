// Package export renders signatures as printable PDF receipts.
package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"SignaturePad/internal/payload"
	"SignaturePad/internal/record"
)

const (
	pageWidth    = 210.0
	margin       = 20.0
	maxImageW    = pageWidth - 2*margin
	maxImageH    = 80.0
	pxPerMM      = 96.0 / 25.4
	dateLayout   = "2006-01-02 15:04:05 MST"
	imageSlotKey = "signature"
)

// WriteReceipt writes a one-page receipt for sig to w.
func WriteReceipt(w io.Writer, sig record.Signature) error {
	pdf, err := receipt(sig)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// SaveReceipt writes the receipt for sig to path.
func SaveReceipt(path string, sig record.Signature) error {
	pdf, err := receipt(sig)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

func receipt(sig record.Signature) (*gofpdf.Fpdf, error) {
	raw, err := payload.PNG(sig.Image)
	if err != nil {
		return nil, err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payload.ErrDecode, err)
	}

	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("Signature receipt", true)
	p.SetMargins(margin, margin, margin)
	p.AddPage()
	tr := p.UnicodeTranslatorFromDescriptor("")

	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 10, "Signature Receipt", "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.SetTextColor(110, 110, 110)
	p.CellFormat(0, 5, "ID "+sig.ID, "", 1, "L", false, 0, "")
	p.SetTextColor(0, 0, 0)
	p.Ln(4)

	row := func(label, value string) {
		if value == "" {
			return
		}
		p.SetFont("Helvetica", "B", 11)
		p.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
		p.SetFont("Helvetica", "", 11)
		p.MultiCell(0, 7, tr(value), "", "L", false)
	}
	row("Signer", sig.SignerName)
	row("Role", sig.Role.Label())
	row("Type", sig.Type.Label())
	row("Project", sig.Project)
	row("Signed at", sig.SignedAt.Format(dateLayout))
	row("Recorded by", sig.RecordedBy)
	row("IP address", sig.IPAddress)
	row("Serials", strings.Join(sig.Serials, ", "))
	row("Notes", sig.Notes)
	p.Ln(6)

	w, h := imageSize(cfg.Width, cfg.Height)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(imageSlotKey, opts, bytes.NewReader(raw))
	x, y := p.GetX(), p.GetY()
	p.ImageOptions(imageSlotKey, x, y, w, h, false, opts, 0, "")
	p.SetDrawColor(160, 160, 160)
	p.SetLineWidth(0.3)
	p.Line(x, y+h+1, x+maxImageW, y+h+1)
	p.SetY(y + h + 3)
	p.SetFont("Helvetica", "I", 9)
	p.CellFormat(0, 5, tr(sig.DisplayName()), "", 1, "L", false, 0, "")

	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("building receipt: %w", err)
	}
	return p, nil
}

// imageSize maps pixel dimensions to millimetres at 96 dpi, shrunk to the
// signature box.
func imageSize(pxW, pxH int) (float64, float64) {
	w := float64(pxW) / pxPerMM
	h := float64(pxH) / pxPerMM
	if w > maxImageW {
		h *= maxImageW / w
		w = maxImageW
	}
	if h > maxImageH {
		w *= maxImageH / h
		h = maxImageH
	}
	return w, h
}
