package record

import (
	"fmt"
	"time"
)

// SignatureType is the business event a signature acknowledges.
type SignatureType string

const (
	TypePickup               SignatureType = "pickup"
	TypeReturn               SignatureType = "return"
	TypePartialPickup        SignatureType = "partial_pickup"
	TypePartialReturn        SignatureType = "partial_return"
	TypeDamageAcknowledgment SignatureType = "damage_acknowledgment"
	TypeOther                SignatureType = "other"
)

// SignatureTypes lists every type in display order.
var SignatureTypes = []SignatureType{
	TypePickup,
	TypeReturn,
	TypePartialPickup,
	TypePartialReturn,
	TypeDamageAcknowledgment,
	TypeOther,
}

var typeLabels = map[SignatureType]string{
	TypePickup:               "Pickup Signature",
	TypeReturn:               "Return Signature",
	TypePartialPickup:        "Partial Pickup",
	TypePartialReturn:        "Partial Return",
	TypeDamageAcknowledgment: "Damage Acknowledgment",
	TypeOther:                "Other",
}

// Label returns the human readable name of t.
func (t SignatureType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is one of SignatureTypes.
func (t SignatureType) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// ParseSignatureType accepts either the key or the label.
func ParseSignatureType(s string) (SignatureType, error) {
	for _, t := range SignatureTypes {
		if string(t) == s || t.Label() == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Role is who signed.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	RoleWitness  Role = "witness"
)

var Roles = []Role{RoleCustomer, RoleStaff, RoleManager, RoleWitness}

var roleLabels = map[Role]string{
	RoleCustomer: "Customer",
	RoleStaff:    "Staff Member",
	RoleManager:  "Manager",
	RoleWitness:  "Witness",
}

func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// ParseRole accepts either the key or the label.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s || r.Label() == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Signature is a captured, finalized signature.
type Signature struct {
	ID         string        `json:"id"`
	Project    string        `json:"project,omitempty"`
	Type       SignatureType `json:"type"`
	SignerName string        `json:"signer_name"`
	Role       Role          `json:"role"`
	Image      string        `json:"image"` // base64 PNG payload, no data-URI prefix
	SignedAt   time.Time     `json:"signed_at"`
	RecordedBy string        `json:"recorded_by,omitempty"`
	Notes      string        `json:"notes,omitempty"`
	IPAddress  string        `json:"ip_address,omitempty"`
	Serials    []string      `json:"serials,omitempty"`
}

// DisplayName is "<signer> - <type label>".
func (s Signature) DisplayName() string {
	return fmt.Sprintf("%s - %s", s.SignerName, s.Type.Label())
}

// Value binds the signature image to a read-only widget.
func (s Signature) Value(string) Value {
	if s.Image == "" {
		return Absent
	}
	return Of(s.Image)
}

// Update is ignored: a finalized signature is immutable.
func (s Signature) Update(string, Value) {}
