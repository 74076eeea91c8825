package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"SignaturePad/internal/payload"
)

// MaxImageSize bounds the stored signature image on each side.
const MaxImageSize = 1024

// Draft collects the inputs of the add-signature form. The signature
// field lives on the embedded Memory record so a signature widget can be
// bound to it directly.
type Draft struct {
	*Memory

	Field      string
	Project    string
	Type       SignatureType
	SignerName string
	Role       Role
	Notes      string
	RecordedBy string
	Serials    []string
}

// NewDraft returns a draft with the form defaults: a pickup signature by a
// customer, stored in field.
func NewDraft(field string) *Draft {
	return &Draft{
		Memory: NewMemory(),
		Field:  field,
		Type:   TypePickup,
		Role:   RoleCustomer,
	}
}

// Validate checks the draft the way the form does before saving.
func (d *Draft) Validate() error {
	if d.Value(d.Field).IsAbsent() {
		return ErrSignatureRequired
	}
	if strings.TrimSpace(d.Project) == "" {
		return ErrProjectRequired
	}
	if strings.TrimSpace(d.SignerName) == "" {
		return ErrSignerRequired
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}
	if !d.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, d.Role)
	}
	return nil
}

// Finalize validates the draft and turns it into a Signature signed at now.
// The image is fitted inside MaxImageSize.
func (d *Draft) Finalize(now time.Time, ipAddress string) (Signature, error) {
	if err := d.Validate(); err != nil {
		return Signature{}, err
	}
	img, err := payload.Fit(d.Value(d.Field).Data, MaxImageSize, MaxImageSize)
	if err != nil {
		return Signature{}, fmt.Errorf("fitting signature image: %w", err)
	}
	var serials []string
	if len(d.Serials) > 0 {
		serials = append(serials, d.Serials...)
	}
	return Signature{
		ID:         uuid.NewString(),
		Project:    strings.TrimSpace(d.Project),
		Type:       d.Type,
		SignerName: strings.TrimSpace(d.SignerName),
		Role:       d.Role,
		Image:      img,
		SignedAt:   now.UTC(),
		RecordedBy: d.RecordedBy,
		Notes:      d.Notes,
		IPAddress:  ipAddress,
		Serials:    serials,
	}, nil
}
