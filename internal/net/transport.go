// Package net relays finalized signatures from capture stations to a
// receiving desk over websockets and finds receivers with mDNS.
package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SignaturePad/internal/record"
)

const (
	Endpoint = "/signatures"

	// maxFrameSize bounds one incoming frame. A base64 PNG of the largest
	// pad image is well under it.
	maxFrameSize = 8 << 20

	MsgSignature = "signature"
	MsgAck       = "ack"
	MsgError     = "error"
)

// Message is the JSON frame exchanged on the relay socket.
type Message struct {
	Type   string            `json:"type"`
	Record *record.Signature `json:"record,omitempty"`
	ID     string            `json:"id,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Peer is a capture station connected to the host.
type Peer struct {
	Conn *websocket.Conn
	Addr string
}

// PeerManager tracks the host's open connections.
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[string]*Peer),
	}
}

func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer.Addr] = peer
	log.Printf("[HOST] Station connected from %s", peer.Addr)
}

func (pm *PeerManager) Remove(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.peers, peer.Addr)
	log.Printf("[HOST] Station %s disconnected", peer.Addr)
}

func (pm *PeerManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// CloseAll drops every connection.
func (pm *PeerManager) CloseAll() {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for _, p := range pm.peers {
		p.Conn.Close()
	}
}

// Host receives signatures from stations. OnRecord is called once per
// received signature, after the sender's IP address has been stamped on it;
// a non-nil error is reported back to the station.
type Host struct {
	Peers    *PeerManager
	OnRecord func(record.Signature) error

	upgrader websocket.Upgrader
}

func NewHost(onRecord func(record.Signature) error) *Host {
	return &Host{
		Peers:    NewPeerManager(),
		OnRecord: onRecord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns the HTTP handler serving the relay endpoint.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Endpoint, h.serveWS)
	return mux
}

// ListenAndServe serves the relay on port until ctx is cancelled.
func (h *Host) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Printf("[HOST] Relay listening on port %d", port)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("relay server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.Peers.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down relay: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (h *Host) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HOST] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	conn.SetReadLimit(maxFrameSize)
	peer := &Peer{Conn: conn, Addr: r.RemoteAddr}
	h.Peers.Add(peer)
	defer h.Peers.Remove(peer)
	defer conn.Close()

	ip := remoteIP(r.RemoteAddr)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[HOST] Read from %s: %v", peer.Addr, err)
			}
			return
		}
		if err := conn.WriteJSON(h.receive(msg, ip)); err != nil {
			log.Printf("[HOST] Reply to %s: %v", peer.Addr, err)
			return
		}
	}
}

func (h *Host) receive(msg Message, ip string) Message {
	if msg.Type != MsgSignature || msg.Record == nil {
		return Message{Type: MsgError, Error: fmt.Sprintf("unexpected message %q", msg.Type)}
	}
	sig := *msg.Record
	sig.IPAddress = ip
	log.Printf("[HOST] Received %s (%s) from %s", sig.ID, sig.DisplayName(), ip)
	if h.OnRecord != nil {
		if err := h.OnRecord(sig); err != nil {
			return Message{Type: MsgError, ID: sig.ID, Error: err.Error()}
		}
	}
	return Message{Type: MsgAck, ID: sig.ID}
}

func remoteIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
