package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	relay "SignaturePad/internal/net"
	"SignaturePad/internal/record"
)

var (
	receivePort      int
	receiveAdvertise bool
)

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Receive signatures from capture stations",
	Long: `Runs a receiving desk: capture stations send finalized signatures here and
they are saved to the local store. The desk is announced on the local network
so stations started with --discover can find it.`,
	Args: cobra.NoArgs,
	RunE: runReceive,
}

func init() {
	receiveCmd.Flags().IntVar(&receivePort, "port", 0, "port to listen on (default from config)")
	receiveCmd.Flags().BoolVar(&receiveAdvertise, "advertise", true, "announce the desk with mDNS")
	rootCmd.AddCommand(receiveCmd)
}

func runReceive(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	port := receivePort
	if port == 0 {
		port = conf.Relay.Port
	}

	st, err := openStore(conf)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := relay.NewHost(func(sig record.Signature) error {
		if err := st.Save(ctx, sig); err != nil {
			return err
		}
		cmd.Printf("Saved %s (%s)\n", sig.DisplayName(), sig.ID)
		return nil
	})

	if receiveAdvertise {
		server, err := relay.Advertise(port)
		if err != nil {
			cmd.PrintErrf("Could not advertise the desk: %v\n", err)
		} else {
			defer server.Shutdown()
		}
	}

	ip, err := relay.GetOutgoingIP()
	if err != nil {
		ip = "localhost"
	}
	cmd.Printf("Receiving signatures on %s:%d, storing in %s\n", ip, port, st.Path())
	cmd.Printf("Stations can connect with: signpad capture --host %s:%d\n", ip, port)

	if err := host.ListenAndServe(ctx, port); err != nil {
		return fmt.Errorf("receiving: %w", err)
	}
	cmd.Println("Stopped")
	return nil
}
