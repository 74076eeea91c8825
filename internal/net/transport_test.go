package net

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignaturePad/internal/record"
)

type received struct {
	mu   sync.Mutex
	sigs []record.Signature
	err  error
}

func (r *received) handle(sig record.Signature) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sigs = append(r.sigs, sig)
	return nil
}

func startHost(t *testing.T, r *received) (*Host, string) {
	t.Helper()
	h := NewHost(r.handle)
	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)
	return h, strings.TrimPrefix(srv.URL, "http://")
}

func dial(t *testing.T, addr string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSubmit_AckedAndStamped(t *testing.T) {
	var r received
	h, addr := startHost(t, &r)
	c := dial(t, addr)

	sig := record.Signature{ID: "abc", SignerName: "Ada", Type: record.TypePickup, Role: record.RoleCustomer, Image: "AAAA", IPAddress: "1.2.3.4"}
	require.NoError(t, c.Submit(context.Background(), sig))

	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.sigs, 1)
	assert.Equal(t, "abc", r.sigs[0].ID)
	assert.Equal(t, "127.0.0.1", r.sigs[0].IPAddress)
	assert.Equal(t, 1, h.Peers.Count())
}

func TestSubmit_Rejected(t *testing.T) {
	r := received{err: errors.New("disk full")}
	_, addr := startHost(t, &r)
	c := dial(t, addr)

	err := c.Submit(context.Background(), record.Signature{ID: "abc"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSubmit_SeveralOnOneConnection(t *testing.T) {
	var r received
	_, addr := startHost(t, &r)
	c := dial(t, addr)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Submit(context.Background(), record.Signature{ID: id}))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Len(t, r.sigs, 3)
}

func TestHost_RejectsUnknownMessage(t *testing.T) {
	var r received
	_, addr := startHost(t, &r)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+Endpoint, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Message{Type: "draw"}))
	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MsgError, reply.Type)
	assert.Empty(t, r.sigs)
}

func TestSubmit_ClosedConnection(t *testing.T) {
	var r received
	_, addr := startHost(t, &r)
	c := dial(t, addr)
	require.NoError(t, c.conn.UnderlyingConn().Close())

	err := c.Submit(context.Background(), record.Signature{ID: "abc"})
	assert.ErrorContains(t, err, "setting read deadline")
	assert.Error(t, c.Close())
	assert.Empty(t, r.sigs)
}

func TestHost_DropsOversizedFrame(t *testing.T) {
	var r received
	h, addr := startHost(t, &r)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+Endpoint, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The host may hang up before the whole frame is written.
	_ = conn.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("x", maxFrameSize+1)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		assert.False(t, ne.Timeout(), "host kept the connection open")
	}

	r.mu.Lock()
	assert.Empty(t, r.sigs)
	r.mu.Unlock()

	// Other stations are unaffected.
	c := dial(t, addr)
	require.NoError(t, c.Submit(context.Background(), record.Signature{ID: "ok"}))
	assert.Eventually(t, func() bool { return h.Peers.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRemoteIP(t *testing.T) {
	assert.Equal(t, "10.0.0.2", remoteIP("10.0.0.2:5123"))
	assert.Equal(t, "::1", remoteIP("[::1]:80"))
	assert.Equal(t, "garbage", remoteIP("garbage"))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	h := NewHost(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.ListenAndServe(ctx, 0) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
}
