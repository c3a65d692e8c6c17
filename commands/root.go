package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"c3speakers/config"
	"c3speakers/congress"
	"c3speakers/services"
	"c3speakers/utils"
)

// errDegraded makes the process exit non-zero after the summary was shown.
var errDegraded = errors.New("the snapshot store failed during this run, see the summary above")

type runOptions struct {
	year  string
	code  string
	url   string
	delay time.Duration
}

// NewRootCmd builds the c3speakers command tree.
func NewRootCmd(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	opts := &runOptions{}

	root := &cobra.Command{
		Use:   "c3speakers",
		Short: "Collect the speakers of a Chaos Communication Congress",
		Long: `c3speakers reads the speakers listed in the Fahrplan (schedule) of a
Chaos Communication Congress, looks up each speaker's Twitter handle and
saves both in a per-congress database. Differences to what was saved on
earlier runs are reported at the end.

Without flags the current congress is used.

Examples:
  c3speakers
  c3speakers -y 2016
  c3speakers -c 33c3
  c3speakers -u https://events.ccc.de/congress/2016/Fahrplan/speakers.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if cmd.Flags().Changed("delay") {
				c.RequestDelay = opts.delay
			}

			p := newPipeline(&c, logger, congress.New(nil))
			summary, err := p.run(cmd.Context(), opts.year, opts.code, opts.url)
			if err != nil {
				return err
			}

			services.NewReporter(os.Getenv("NO_COLOR") == "").Print(cmd.OutOrStdout(), summary)
			if summary.Degraded {
				return errDegraded
			}
			return nil
		},
	}

	root.Flags().StringVarP(&opts.year, "year", "y", "", "congress year, e.g. 2016")
	root.Flags().StringVarP(&opts.code, "congress", "c", "", "congress code, e.g. 33c3")
	root.Flags().StringVarP(&opts.url, "url", "u", "", "address of a Fahrplan page to use instead of the official site")
	root.Flags().DurationVar(&opts.delay, "delay", cfg.RequestDelay, "pause between speaker profile requests")
	root.MarkFlagsMutuallyExclusive("year", "congress", "url")

	root.AddCommand(newExportCmd(cfg, logger))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(cfg, logger).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
