package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"reelsync/internal/catalog"
	"reelsync/internal/drive"
	"reelsync/internal/logging"
	"reelsync/internal/reconcile"
	"reelsync/internal/services"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync [folder-id...]",
		Short: "Walk the Drive tree and reconcile the catalog",
		Long: `Sync traverses the configured Drive folder trees depth-first, filters
media files, and aligns the catalog with what it finds: new files are
inserted pending, playback order follows the traversal, files that
disappeared are soft-deleted. Hidden rows and manual classifications
are never disturbed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			roots := args
			if len(roots) == 0 {
				roots = cfg.Drive.RootFolderIDs
			}
			if len(roots) == 0 {
				return services.Wrap(services.ErrConfiguration, "sync", "roots", "no root folder ids given; set drive.root_folder_ids or pass them as arguments", nil)
			}

			runCtx, logger, err := ctx.newRunLogger(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			lock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = lock.Unlock()
			}()

			client, err := drive.NewClient(runCtx, cfg.Drive, logger)
			if err != nil {
				return err
			}
			walker := drive.NewWalker(client, cfg.Drive, logger)

			logger.Info("walking drive trees", logging.Int("roots", len(roots)))
			items, err := walker.Walk(runCtx, roots)
			if err != nil {
				return fmt.Errorf("walk drive tree: %w", err)
			}
			logger.Info("walk complete", logging.Int("media_items", len(items)))

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rec := reconcile.New(store, cfg.Drive.CopyPrefixes, logger)
			plan, err := rec.Plan(runCtx, items)
			if err != nil {
				return fmt.Errorf("plan reconciliation: %w", err)
			}

			out := cmd.OutOrStdout()
			if dryRun {
				renderPlan(out, plan)
				return nil
			}

			summary, err := rec.Apply(runCtx, plan)
			if err != nil {
				return fmt.Errorf("apply reconciliation: %w", err)
			}
			renderSummary(out, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the plan without writing to the catalog")
	return cmd
}

func renderPlan(out io.Writer, plan *reconcile.Plan) {
	rows := [][]string{
		{"insert", strconv.Itoa(len(plan.Inserts))},
		{"reorder", strconv.Itoa(len(plan.Reorders))},
		{"refresh", strconv.Itoa(len(plan.Refreshes))},
		{"delete", strconv.Itoa(len(plan.Deletes))},
		{"retire duplicate", strconv.Itoa(len(plan.Duplicates))},
		{"unchanged", strconv.Itoa(plan.Unchanged)},
		{"skipped copy", strconv.Itoa(plan.SkippedCopies)},
		{"kept hidden", strconv.Itoa(plan.KeptHidden)},
	}
	writeTable(out, []string{"Action", "Rows"}, rows, []columnAlignment{alignLeft, alignRight})
	if plan.Empty() {
		fmt.Fprintln(out, "Catalog already matches the Drive tree; nothing to do.")
	}
}

func renderSummary(out io.Writer, summary reconcile.Summary) {
	rows := [][]string{
		{"added", strconv.Itoa(summary.Added)},
		{"orders updated", strconv.Itoa(summary.OrdersUpdated)},
		{"refreshed", strconv.Itoa(summary.Refreshed)},
		{"deleted", strconv.Itoa(summary.Deleted)},
		{"unchanged", strconv.Itoa(summary.Unchanged)},
		{"skipped copies", strconv.Itoa(summary.SkippedCopies)},
		{"failed", strconv.Itoa(summary.Failed)},
	}
	writeTable(out, []string{"Result", "Rows"}, rows, []columnAlignment{alignLeft, alignRight})
}
