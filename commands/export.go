package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"c3speakers/config"
	"c3speakers/congress"
	"c3speakers/models"
	"c3speakers/storage"
	"c3speakers/utils"
)

// listBatchSize is how many members Twitter accepts per list update.
const listBatchSize = 100

type exportOptions struct {
	year   string
	code   string
	format string
	output string
}

func newExportCmd(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved speakers of a congress",
		Long: `Export the speakers saved for a congress.

Formats:
  csv      id,name,handle rows written to --output
  handles  the Twitter list name and handles in batches of 100

Examples:
  c3speakers export -y 2016
  c3speakers export -c 33c3 --format handles`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := congress.New(nil).Resolve(opts.year, opts.code)
			if err != nil {
				return err
			}

			store, err := openExisting(cfg, ed.Year)
			if err != nil {
				return err
			}
			speakers, err := store.ReadAll(cmd.Context())
			if err != nil {
				return err
			}

			switch opts.format {
			case "csv":
				path := opts.output
				if path == "" {
					path = cfg.CSVOutputPath
				}
				if err := writeCSV(path, speakers); err != nil {
					return err
				}
				logger.Info("%d speaker(s) of %s saved to %s", len(speakers), ed.Code(), path)
				return nil
			case "handles":
				writeHandles(cmd.OutOrStdout(), ed, speakers)
				return nil
			default:
				return &models.FormatError{Field: "format", Value: opts.format, Message: "use csv or handles"}
			}
		},
	}

	cmd.Flags().StringVarP(&opts.year, "year", "y", "", "congress year, e.g. 2016")
	cmd.Flags().StringVarP(&opts.code, "congress", "c", "", "congress code, e.g. 33c3")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "output format: csv or handles")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "CSV file to write (default from CSV_OUTPUT_PATH)")
	cmd.MarkFlagsMutuallyExclusive("year", "congress")
	return cmd
}

// openExisting opens the store of a congress that has been collected before.
func openExisting(cfg *config.Config, year int) (storage.SnapshotStore, error) {
	store, err := storage.Open(cfg, year)
	if err != nil {
		return nil, err
	}
	if s, ok := store.(*storage.SQLiteStore); ok {
		if _, err := os.Stat(s.Path()); err != nil {
			return nil, &models.StoreError{Op: "open", Err: fmt.Errorf("no speakers saved for %d: %w", year, err)}
		}
	}
	return store, nil
}

func writeCSV(path string, speakers []models.Speaker) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(speakers); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func writeHandles(w io.Writer, ed models.Edition, speakers []models.Speaker) {
	var handles []string
	for _, sp := range speakers {
		if sp.Handle != "" {
			handles = append(handles, sp.Handle)
		}
	}

	fmt.Fprintf(w, "Twitter list: %s\n", listSlug(ed))
	for _, batch := range chunk(handles, listBatchSize) {
		fmt.Fprintln(w, strings.Join(batch, ","))
	}
}

// listSlug names the Twitter list of a congress's speakers.
func listSlug(ed models.Edition) string {
	return fmt.Sprintf("CCC-%s-speakers", ed.Code())
}

func chunk(items []string, size int) [][]string {
	var out [][]string
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
