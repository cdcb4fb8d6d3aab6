package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/mapbuilder/compiler"
	"github.com/syssam/mapbuilder/compiler/gen"
)

func newWatchCmd(f *flags) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [patterns]",
		Short: "Regenerate builders whenever the given packages change",
		Long: `Generate builders, then regenerate them whenever a Go file of the
watched packages is written. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := f.newLogger(cmd.ErrOrStderr())
			defer logger.Sync()
			opts, err := f.options(cmd, args, logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			w, err := compiler.NewWatcher(ctx, opts, debounce, func(report *gen.Report, err error) {
				if err != nil || report == nil {
					return
				}
				for _, failure := range report.Failures {
					logger.Warn("record skipped", zap.String("reason", failure.Error()))
				}
			})
			if err != nil {
				return err
			}
			defer w.Close()
			logger.Info("watching", zap.Strings("dirs", w.Dirs()))
			return w.Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", compiler.DefaultDebounce, "Quiet period before regenerating")
	return cmd
}
