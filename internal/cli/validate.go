package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	CollectAll bool
}

// validatedSchema is the per-schema payload for structured output.
type validatedSchema struct {
	Name       string          `json:"name" yaml:"name"`
	Doc        string          `json:"doc,omitempty" yaml:"doc,omitempty"`
	Attributes []validatedAttr `json:"attributes" yaml:"attributes"`
}

type validatedAttr struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Constant bool   `json:"constant,omitempty" yaml:"constant,omitempty"`
	Doc      string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Compile and validate CUE attribute schemas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.CollectAll, "all-errors", false, "report all errors instead of stopping at the first")
	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions, dir string) error {
	mode := LoadModeFailFast
	if opts.CollectAll {
		mode = LoadModeCollectAll
	}

	result, errs := LoadSchemas(dir, mode)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d schema error(s)", len(errs)))
	}

	payload := make([]validatedSchema, 0, len(result.Schemas))
	for _, spec := range result.Schemas {
		vs := validatedSchema{Name: spec.Name, Doc: spec.Doc}
		for _, d := range spec.Schema.Decls() {
			vs.Attributes = append(vs.Attributes, validatedAttr{
				Name:     d.Name,
				Kind:     d.Kind.Name(),
				Constant: d.Constant,
				Doc:      d.Doc,
			})
		}
		payload = append(payload, vs)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return f.Emit(payload, func(w io.Writer) error {
		for _, vs := range payload {
			fmt.Fprintf(w, "schema %s (%d attributes)\n", vs.Name, len(vs.Attributes))
			for _, a := range vs.Attributes {
				marker := ""
				if a.Constant {
					marker = " [constant]"
				}
				fmt.Fprintf(w, "  %-20s %s%s\n", a.Name, a.Kind, marker)
			}
		}
		fmt.Fprintf(w, "OK: %d schema(s) from %d file(s)\n", len(payload), result.FileCount)
		return nil
	})
}
