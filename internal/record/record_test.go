package record

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignaturePad/internal/payload"
)

func TestValue_Absent(t *testing.T) {
	assert.True(t, Absent.IsAbsent())
	assert.True(t, Value{Set: true}.IsAbsent())
	assert.True(t, Value{Data: "x"}.IsAbsent())
	assert.False(t, Of("x").IsAbsent())
}

func TestMemory_UpdateBumpsRevision(t *testing.T) {
	m := NewMemory()
	var seen []Change
	m.OnUpdate = func(c Change) { seen = append(seen, c) }

	m.Set("seed", Of("a"))
	assert.Zero(t, m.Revision())
	assert.Empty(t, seen)

	m.Update("signature", Of("abc"))
	m.Update("signature", Absent)

	assert.Equal(t, uint64(2), m.Revision())
	require.Len(t, seen, 2)
	assert.Equal(t, m.ID(), seen[0].RecordID)
	assert.Equal(t, "signature", seen[1].Field)
	assert.Equal(t, uint64(2), seen[1].Revision)
	assert.True(t, m.Value("signature").IsAbsent())
	assert.Equal(t, Of("a"), m.Value("seed"))
}

func TestMemory_IDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewMemory().ID(), NewMemory().ID())
}

func TestParseSignatureType(t *testing.T) {
	typ, err := ParseSignatureType("damage_acknowledgment")
	require.NoError(t, err)
	assert.Equal(t, TypeDamageAcknowledgment, typ)

	typ, err = ParseSignatureType("Return Signature")
	require.NoError(t, err)
	assert.Equal(t, TypeReturn, typ)

	_, err = ParseSignatureType("delivery")
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Staff Member")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, role)

	_, err = ParseRole("driver")
	assert.True(t, errors.Is(err, ErrUnknownRole))
}

func TestSignature_DisplayName(t *testing.T) {
	s := Signature{SignerName: "Ada Lovelace", Type: TypePartialReturn}
	assert.Equal(t, "Ada Lovelace - Partial Return", s.DisplayName())
}

func TestSignature_IsReadOnlyRecord(t *testing.T) {
	s := Signature{Image: "abc"}
	var rec Record = s
	rec.Update("signature", Absent)
	assert.Equal(t, Of("abc"), rec.Value("signature"))
	assert.True(t, Signature{}.Value("signature").IsAbsent())
}

func encoded(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	body, err := payload.Encode(img)
	require.NoError(t, err)
	return body
}

func TestDraft_Validate(t *testing.T) {
	d := NewDraft("signature")
	assert.Equal(t, TypePickup, d.Type)
	assert.Equal(t, RoleCustomer, d.Role)
	assert.ErrorIs(t, d.Validate(), ErrSignatureRequired)

	d.Update("signature", Of(encoded(t, 10, 10)))
	assert.ErrorIs(t, d.Validate(), ErrProjectRequired)

	d.Project = " "
	assert.ErrorIs(t, d.Validate(), ErrProjectRequired)

	d.Project = "PRJ-1"
	assert.ErrorIs(t, d.Validate(), ErrSignerRequired)

	d.SignerName = "  "
	assert.ErrorIs(t, d.Validate(), ErrSignerRequired)

	d.SignerName = "Grace"
	d.Type = "courier"
	assert.ErrorIs(t, d.Validate(), ErrUnknownType)

	d.Type = TypeOther
	d.Role = "driver"
	assert.ErrorIs(t, d.Validate(), ErrUnknownRole)

	d.Role = RoleWitness
	assert.NoError(t, d.Validate())
}

func TestDraft_Finalize(t *testing.T) {
	d := NewDraft("signature")
	d.SignerName = " Grace Hopper "
	d.Project = " PRJ-7 "
	d.Notes = "all crates intact"
	d.Serials = []string{"SN-1", "SN-2"}
	d.Update("signature", Of(encoded(t, 2048, 200)))

	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600))
	sig, err := d.Finalize(now, "10.0.0.5")
	require.NoError(t, err)

	assert.NotEmpty(t, sig.ID)
	assert.Equal(t, "Grace Hopper", sig.SignerName)
	assert.Equal(t, "PRJ-7", sig.Project)
	assert.Equal(t, now.UTC(), sig.SignedAt)
	assert.Equal(t, "10.0.0.5", sig.IPAddress)
	assert.Equal(t, []string{"SN-1", "SN-2"}, sig.Serials)

	img, err := payload.Decode(sig.Image)
	require.NoError(t, err)
	assert.Equal(t, MaxImageSize, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	d.Serials[0] = "changed"
	assert.Equal(t, "SN-1", sig.Serials[0])
}

func TestDraft_FinalizeRejectsInvalid(t *testing.T) {
	d := NewDraft("signature")
	d.SignerName = "Grace"
	d.Project = "PRJ-1"
	_, err := d.Finalize(time.Now(), "")
	assert.ErrorIs(t, err, ErrSignatureRequired)

	d.Update("signature", Of("garbage!"))
	_, err = d.Finalize(time.Now(), "")
	assert.ErrorIs(t, err, payload.ErrDecode)
}
