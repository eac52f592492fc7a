package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/intake"
	"github.com/spf13/cobra"
)

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Apply milestone updates found in documents",
	}
	cmd.AddCommand(newScanApplyCmd(app))
	return cmd
}

// readUpdates loads proposed updates from a JSON array, or extracts them
// from any other file as plain text.
func readUpdates(path string) ([]intake.ProposedUpdate, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return intake.ParseDocument(string(b)), nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var updates []intake.ProposedUpdate
	if err := dec.Decode(&updates); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return updates, nil
}

func newScanApplyCmd(app *App) *cobra.Command {
	var (
		file          string
		minConfidence float64
	)

	cmd := &cobra.Command{
		Use:   "apply <site>",
		Short: "Apply updates from a JSON update list or a text document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := readUpdates(file)
			if err != nil {
				return err
			}
			req := contract.NewDocumentScanRequest(args[0], updates)
			req.MinConfidence = app.MinConfidence
			if cmd.Flags().Changed("min-confidence") {
				if minConfidence <= 0 || minConfidence > 1 {
					return fmt.Errorf("--min-confidence must be in (0, 1]")
				}
				req.MinConfidence = minConfidence
			}
			resp, err := app.Sites.ApplyDocumentUpdates(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDocumentScan(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Update list (.json) or document text")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", intake.DefaultMinConfidence, "Reject updates below this confidence")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
