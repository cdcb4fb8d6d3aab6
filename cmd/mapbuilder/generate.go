package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/mapbuilder/compiler"
	"github.com/syssam/mapbuilder/compiler/gen"
)

func newGenerateCmd(f *flags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "generate [patterns]",
		Short: "Generate builders for the records of the given packages",
		Long: `Generate builders for the records of the given packages.

Records that cannot have a builder are reported and skipped; the command
then exits with status 1 after writing the other builders.

Examples:
  mapbuilder generate                      # records of the current package
  mapbuilder generate ./...                # records of all packages
  mapbuilder generate --type User ./model  # User only, directive not needed
  mapbuilder generate --dry-run ./...      # print instead of writing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := f.newLogger(cmd.ErrOrStderr())
			defer logger.Sync()
			opts, err := f.options(cmd, args, logger)
			if err != nil {
				return err
			}
			var mem *gen.MemoryEmitter
			if dryRun {
				mem = &gen.MemoryEmitter{}
				opts.Emitter = mem
			}
			report, err := compiler.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if mem != nil {
				out := cmd.OutOrStdout()
				for _, path := range mem.Paths() {
					data, _ := mem.File(path)
					fmt.Fprintf(out, "// %s\n%s\n", path, data)
				}
			}
			for _, failure := range report.Failures {
				fmt.Fprintln(cmd.ErrOrStderr(), failure.Error())
			}
			return reportErr(report)
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the generated files instead of writing them")
	return cmd
}
