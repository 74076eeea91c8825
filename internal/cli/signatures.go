package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"SignaturePad/internal/export"
	"SignaturePad/internal/ui"
)

var listProject string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored signatures",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var viewCmd = &cobra.Command{
	Use:   "view [signature-id]",
	Short: "Browse stored signatures",
	Long:  `Opens a read-only browser of the stored signatures, optionally showing one of them.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runView,
}

var exportCmd = &cobra.Command{
	Use:   "export [signature-id] [output.pdf]",
	Short: "Write a PDF receipt for a signature",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExport,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [signature-id]",
	Short: "Delete a stored signature",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "only list signatures of this project")
	viewCmd.Flags().StringVarP(&listProject, "project", "p", "", "only show signatures of this project")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(conf)
	if err != nil {
		return err
	}
	defer st.Close()

	sigs, err := st.List(cmd.Context(), listProject)
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		cmd.Println("No signatures found")
		return nil
	}
	for _, sig := range sigs {
		cmd.Printf("%s  %s  %s\n", sig.ID, sig.SignedAt.Local().Format("2006-01-02 15:04"), sig.DisplayName())
		if sig.Project != "" {
			cmd.Printf("    Project: %s\n", sig.Project)
		}
	}
	cmd.Printf("\nTotal: %d signatures\n", len(sigs))
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(conf)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := ui.ViewerOptions{Config: conf, Project: listProject, Source: st}
	if len(args) == 1 {
		if _, err := st.Get(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("signature %s: %w", args[0], err)
		}
		opts.Select = args[0]
	}
	return ui.RunViewer(opts)
}

func runExport(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(conf)
	if err != nil {
		return err
	}
	defer st.Close()

	sig, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("signature %s: %w", args[0], err)
	}
	out := sig.ID + ".pdf"
	if len(args) == 2 {
		out = args[1]
	}
	if err := export.SaveReceipt(out, sig); err != nil {
		return fmt.Errorf("writing receipt: %w", err)
	}
	cmd.Printf("Wrote %s\n", out)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(conf)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("signature %s: %w", args[0], err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
