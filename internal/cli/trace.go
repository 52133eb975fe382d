package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/attune/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	TxToken  string
	Owner    string
	Attr     string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Dump the change journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "journal database path (required)")
	cmd.Flags().StringVar(&opts.TxToken, "tx", "", "filter to one transaction token")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "filter to one owner (requires --attr)")
	cmd.Flags().StringVar(&opts.Attr, "attr", "", "filter to one attribute (requires --owner)")
	cmd.MarkFlagRequired("db")
	return cmd
}

func runTrace(cmd *cobra.Command, opts *TraceOptions) error {
	if (opts.Owner == "") != (opts.Attr == "") {
		return NewExitError(ExitCommandError, "--owner and --attr must be used together")
	}
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "journal database", err)
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	var entries []journal.Entry
	switch {
	case opts.TxToken != "":
		entries, err = j.EntriesByTx(opts.TxToken)
	case opts.Owner != "":
		entries, err = j.EntriesByAttr(opts.Owner, opts.Attr)
	default:
		entries, err = j.Entries()
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "read journal", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Emit(entries, func(w io.Writer) error {
		for _, e := range entries {
			fmt.Fprintf(w, "%6d  %s  %s.%s  %s -> %s\n",
				e.Seq, e.TxToken, e.Owner, e.Attr, e.Old, e.New)
		}
		fmt.Fprintf(w, "%d change(s)\n", len(entries))
		return nil
	})
}
