package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/critpath/internal/codec"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export <site>",
		Short: "Export a site's schedule document as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Sites.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			var b []byte
			switch strings.ToLower(format) {
			case "json":
				b, err = codec.MarshalIndent(st.Data)
			case "yaml", "yml":
				b, err = codec.MarshalYAML(st.Data)
			default:
				return fmt.Errorf("unknown --format %q (expected json or yaml)", format)
			}
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := codec.WriteFile(out, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to FILE instead of stdout")
	return cmd
}
