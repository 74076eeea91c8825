package ui

import (
	"log"
	"strings"
	"unicode"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"SignaturePad/internal/export"
	"SignaturePad/internal/record"
)

// exportReceipt asks for a destination and writes the PDF receipt of sig.
func exportReceipt(win fyne.Window, sig record.Signature) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()

		if err := export.WriteReceipt(w, sig); err != nil {
			log.Printf("[UI] Export of %s failed: %v", sig.ID, err)
			dialog.ShowError(err, win)
			return
		}
		log.Printf("[UI] Wrote receipt for %s to %s", sig.ID, w.URI())
	}, win)
	d.SetFileName(receiptName(sig))
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.Show()
}

// receiptName is "signature-<signer>-<date>.pdf" with the signer reduced to
// lowercase letters, digits and dashes.
func receiptName(sig record.Signature) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(sig.SignerName)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "unknown"
	}
	return "signature-" + name + "-" + sig.SignedAt.Format("20060102") + ".pdf"
}
