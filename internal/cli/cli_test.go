package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignaturePad/internal/config"
	relay "SignaturePad/internal/net"
	"SignaturePad/internal/payload"
	"SignaturePad/internal/record"
	"SignaturePad/internal/store"
)

func setupConfig(t *testing.T) (string, config.Config) {
	t.Helper()
	dir := t.TempDir()
	conf := config.Default()
	conf.Storage.DataDir = filepath.Join(dir, "data")
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, config.Write(path, conf))
	listProject = ""
	return path, conf
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func seed(t *testing.T, conf config.Config, sigs ...record.Signature) {
	t.Helper()
	st, err := store.Open(conf.Storage.DataDir)
	require.NoError(t, err)
	defer st.Close()
	for _, sig := range sigs {
		require.NoError(t, st.Save(context.Background(), sig))
	}
}

func signatureFor(t *testing.T, id, signer, project string, at time.Time) record.Signature {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 60, 20))
	for x := 5; x < 55; x++ {
		img.SetNRGBA(x, 10, color.NRGBA{A: 0xff})
	}
	body, err := payload.Encode(img)
	require.NoError(t, err)
	return record.Signature{
		ID:         id,
		Project:    project,
		Type:       record.TypePickup,
		SignerName: signer,
		Role:       record.RoleCustomer,
		Image:      body,
		SignedAt:   at,
	}
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "signpad version test-version-1.0.0")
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"capture", "receive", "list", "view", "export", "delete", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestListCmd_Empty(t *testing.T) {
	path, _ := setupConfig(t)

	out, err := execute("--config", path, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No signatures found")
}

func TestListCmd_ShowsSignatures(t *testing.T) {
	path, conf := setupConfig(t)
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	seed(t, conf,
		signatureFor(t, "sig-1", "Ada", "stage", base),
		signatureFor(t, "sig-2", "Bob", "lights", base.Add(time.Hour)),
	)

	out, err := execute("--config", path, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada - Pickup Signature")
	assert.Contains(t, out, "Project: lights")
	assert.Contains(t, out, "Total: 2 signatures")
	assert.Less(t, strings.Index(out, "sig-2"), strings.Index(out, "sig-1"))

	out, err = execute("--config", path, "list", "--project", "stage")
	require.NoError(t, err)
	assert.Contains(t, out, "sig-1")
	assert.NotContains(t, out, "sig-2")
	listProject = ""
}

func TestExportCmd_WritesReceipt(t *testing.T) {
	path, conf := setupConfig(t)
	seed(t, conf, signatureFor(t, "sig-1", "Ada", "", time.Now().UTC()))
	pdf := filepath.Join(t.TempDir(), "receipt.pdf")

	out, err := execute("--config", path, "export", "sig-1", pdf)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+pdf)

	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportCmd_UnknownSignature(t *testing.T) {
	path, _ := setupConfig(t)

	_, err := execute("--config", path, "export", "missing", filepath.Join(t.TempDir(), "x.pdf"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteCmd(t *testing.T) {
	path, conf := setupConfig(t)
	seed(t, conf, signatureFor(t, "sig-1", "Ada", "", time.Now().UTC()))

	out, err := execute("--config", path, "delete", "sig-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted sig-1")

	_, err = execute("--config", path, "delete", "sig-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRelaySubmitter(t *testing.T) {
	var got []record.Signature
	host := relay.NewHost(func(sig record.Signature) error {
		got = append(got, sig)
		return nil
	})
	srv := httptest.NewServer(host.Handler())
	defer srv.Close()

	sub := newRelaySubmitter(strings.TrimPrefix(srv.URL, "http://"))
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sub.Submit(ctx, signatureFor(t, "sig-1", "Ada", "", time.Now().UTC())))
	require.NoError(t, sub.Submit(ctx, signatureFor(t, "sig-2", "Bob", "", time.Now().UTC())))

	require.Len(t, got, 2)
	assert.Equal(t, "127.0.0.1", got[0].IPAddress)
	assert.Equal(t, "sig-2", got[1].ID)
}

func TestRelaySubmitter_DialFailure(t *testing.T) {
	srv := httptest.NewServer(nil)
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	sub := newRelaySubmitter(addr)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, sub.Submit(ctx, record.Signature{ID: "x"}))
	assert.Nil(t, sub.client)
}
