package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/alloy/internal/declare"
	"github.com/zjrosen/alloy/internal/forge"
	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/presentation"
)

func newTemplateValidateCmd(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "template:validate [dir]",
		Short: "Check template declarations without loading them",
		Long: `Compile every declaration in dir (default: the configured templates
directory) and report each template with its diagnostics. The catalog used by
other commands is not changed.

With --watch, declarations are validated again whenever a file changes, until
interrupted.`,
		Example: `  alloy template:validate
  alloy template:validate ./templates --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.cfg.TemplatesDir
			if len(args) == 1 {
				dir = args[0]
			}

			svc, err := opts.service()
			if err != nil {
				return err
			}

			if !watch {
				return validateDir(svc, dir, cmd.OutOrStdout())
			}
			return watchDir(cmd.Context(), svc, dir, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "revalidate when declarations change")
	return cmd
}

func validateDir(svc *forge.Service, dir string, out io.Writer) error {
	entries, err := svc.Validate(dir)
	if err != nil {
		return err
	}
	return presentation.NewFormatter(out).FormatValidation(presentation.FromCatalogEntries(entries))
}

func watchDir(ctx context.Context, svc *forge.Service, dir string, out, errOut io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := declare.NewWatcher(declare.DefaultWatcherConfig(dir))
	if err != nil {
		return err
	}
	changes, err := watcher.Start()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()

	if listener := log.NewListener(ctx); listener != nil {
		go func() {
			for ev := range listener.Events() {
				_, _ = fmt.Fprint(errOut, ev.Payload)
			}
		}()
	}

	report := func() {
		if err := validateDir(svc, dir, out); err != nil {
			_, _ = fmt.Fprintf(errOut, "error: %v\n", err)
		}
	}

	report()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintf(out, "--- %s changed\n", dir)
			report()
		}
	}
}
