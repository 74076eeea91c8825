package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spf13/cobra"

	relay "SignaturePad/internal/net"
	"SignaturePad/internal/record"
	"SignaturePad/internal/ui"
)

const browseTimeout = 3 * time.Second

var (
	captureProject    string
	captureRecordedBy string
	captureHost       string
	captureDiscover   bool
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Open the signature pad",
	Long: `Opens the signature pad. Signatures are saved to the local store unless a
receiving host is configured, given with --host, or found with --discover.`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, captureCmd} {
		c.Flags().StringVarP(&captureProject, "project", "p", "", "project the signatures belong to")
		c.Flags().StringVar(&captureRecordedBy, "recorded-by", "", "name of the staff member running the pad")
		c.Flags().StringVar(&captureHost, "host", "", "send signatures to this receiving host (host:port)")
		c.Flags().BoolVar(&captureDiscover, "discover", false, "look for a receiving host on the local network")
	}
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	host := captureHost
	if host == "" {
		host = conf.Relay.Address
	}
	if host == "" && (captureDiscover || conf.Relay.Discover) {
		cmd.Println("Looking for a receiving host...")
		found, err := relay.Browse(browseTimeout)
		if err != nil {
			log.Printf("[HOST] %v", err)
		}
		if len(found) == 0 {
			return errors.New("no receiving host found on the network")
		}
		host = found[0]
	}

	opts := ui.CaptureOptions{
		Config:     conf,
		Project:    captureProject,
		RecordedBy: captureRecordedBy,
	}
	if host != "" {
		sub := newRelaySubmitter(host)
		defer sub.Close()
		opts.Submit = sub.Submit
		opts.Target = host
	} else {
		st, err := openStore(conf)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.Submit = st.Save
		if ip, err := relay.GetOutgoingIP(); err == nil {
			opts.IPAddress = ip
		}
	}

	ui.RunCapture(opts)
	return nil
}

// relaySubmitter keeps one relay connection open, dialing again after a
// failed submit.
type relaySubmitter struct {
	addr   string
	mu     sync.Mutex
	client *relay.Client
}

func newRelaySubmitter(addr string) *relaySubmitter {
	return &relaySubmitter{addr: addr}
}

func (r *relaySubmitter) Submit(ctx context.Context, sig record.Signature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		c, err := relay.Dial(ctx, r.addr)
		if err != nil {
			return err
		}
		r.client = c
	}
	if err := r.client.Submit(ctx, sig); err != nil {
		if !errors.Is(err, relay.ErrRejected) {
			r.client.Close()
			r.client = nil
		}
		return fmt.Errorf("sending to %s: %w", r.addr, err)
	}
	return nil
}

func (r *relaySubmitter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		r.client.Close()
		r.client = nil
	}
}
