package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/report"
	"github.com/spf13/cobra"
)

func newExportCmd(gf *globalFlags) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks and statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(gf, func(s *session) error {
				r := report.FromStore(s.store, time.Now())
				var opts []report.Option
				if s.cfg.PDFFont != "" {
					opts = append(opts, report.WithFont(s.cfg.PDFFont))
				} else if strings.EqualFold(format, "pdf") && report.NeedsUnicodeFont(r) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Warning: set TOKA_PDF_FONT to a TrueType font to render non-Latin text in PDFs")
				}
				data, err := report.Export(r, format, opts...)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0600); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: "+strings.Join(report.Formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
