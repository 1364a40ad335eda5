package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/features/exports"
	"github.com/orkestra-ventures/orkestra/internal/app/system/export"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

// ExportCmd returns the export command.
func ExportCmd() *cobra.Command {
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Export every record of a resource as CSV or XLSX",
		Long: `Write all records of one resource to a file, or stdout with --out -.
Resources use their RPC namespace names, e.g. applications or webPages.

Examples:
  orkestractl export applications --format xlsx
  orkestractl export invoices --out - | head`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *mongo.Database) error {
				if outPath == "-" {
					_, err := exportResource(ctx, db, cmd.OutOrStdout(), args[0], format)
					return err
				}
				if outPath == "" {
					outPath = fmt.Sprintf("%s_%s.%s", args[0], time.Now().UTC().Format("20060102"), format)
				}
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				n, err := exportResource(ctx, db, f, args[0], format)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					_ = os.Remove(outPath)
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d record(s) to %s\n", okText("wrote"), n, outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <resource>_<date>.<format>, - for stdout)")
	return cmd
}

// exportResource writes one resource to w and returns the row count.
func exportResource(ctx context.Context, db *mongo.Database, w io.Writer, resource, format string) (int, error) {
	if format != export.FormatCSV && format != export.FormatXLSX {
		return 0, fmt.Errorf("unsupported format %q (want csv or xlsx)", format)
	}
	reg := exports.NewRegistry(db)
	fetch, ok := reg[resource]
	if !ok {
		return 0, fmt.Errorf("unknown resource %q (have %s)", resource, strings.Join(reg.Names(), ", "))
	}
	table, err := fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.Write(w, format, table); err != nil {
		return 0, err
	}
	return len(table.Rows), nil
}
