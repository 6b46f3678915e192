package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"reelsync/internal/catalog"
	"reelsync/internal/classify"
	"reelsync/internal/drive"
	"reelsync/internal/fusion"
	"reelsync/internal/logging"
	"reelsync/internal/taxonomy"
)

func newBackfillCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Classify cataloged rows from their folder paths",
		Long: `Backfill runs the folder-path classifier over every active row without
a manual technique, fuses the result with any stored AI suggestion, and
writes the winning technique, confidence, and phase back to the catalog.
A preview table is printed before anything is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, logger, err := ctx.newRunLogger(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			// Backfill writes the same rows sync does, so it shares the
			// single-instance lock.
			lock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = lock.Unlock()
			}()

			index, err := taxonomy.Load(cfg.Taxonomy.IndexPath)
			if err != nil {
				return fmt.Errorf("load technique index: %w", err)
			}
			classifier := classify.New(index, classify.Options{
				Aliases:     cfg.Taxonomy.Aliases,
				SkipFolders: cfg.Taxonomy.SkipFolders,
			})
			fuser := fusion.New(index, fusion.Weights{
				Folder: cfg.Fusion.FolderWeight,
				AI:     cfg.Fusion.AIWeight,
			})

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.ListUnclassified(runCtx)
			if err != nil {
				return err
			}

			resolvePath := folderPathResolver(runCtx, ctx, logger)

			type suggestion struct {
				row      *catalog.Item
				decision *fusion.Decision
			}
			var suggestions []suggestion
			unresolved := 0
			for _, row := range rows {
				path := row.FolderPath
				if path == "" && row.FolderID != "" {
					path, err = resolvePath(row.FolderID)
					if err != nil {
						logger.Warn("folder path resolution failed",
							logging.String(logging.FieldExternalID, row.ExternalID),
							logging.String(logging.FieldFolderID, row.FolderID),
							logging.Error(err))
						unresolved++
						continue
					}
				}
				folderResult := classifier.Classify(lastPathSegment(path), path)
				decision := fuser.Fuse(folderResult, row.AITechniqueID, row.AIConfidence)
				if decision == nil {
					unresolved++
					continue
				}
				suggestions = append(suggestions, suggestion{row: row, decision: decision})
			}

			out := cmd.OutOrStdout()
			previewRows := make([][]string, 0, len(suggestions))
			for _, s := range suggestions {
				previewRows = append(previewRows, []string{
					s.row.Title,
					s.decision.TechniqueID,
					fmt.Sprintf("%.2f", s.decision.Confidence),
					string(s.decision.Source),
					s.decision.Phase,
				})
			}
			writeTable(out, []string{"Title", "Technique", "Confidence", "Source", "Phase"},
				previewRows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft})
			fmt.Fprintf(out, "%d of %d rows classified (%d without signal)\n",
				len(suggestions), len(rows), unresolved)

			if dryRun {
				return nil
			}

			updated, failed := 0, 0
			for _, s := range suggestions {
				err := store.UpdateClassification(runCtx, s.row.ID,
					s.decision.TechniqueID, s.decision.Confidence,
					string(s.decision.Source), s.decision.Phase)
				if err != nil {
					failed++
					logger.Error("classification update failed",
						logging.String(logging.FieldExternalID, s.row.ExternalID),
						logging.String(logging.FieldTechniqueID, s.decision.TechniqueID),
						logging.Error(err))
					continue
				}
				updated++
			}
			fmt.Fprintf(out, "Updated %d rows", updated)
			if failed > 0 {
				fmt.Fprintf(out, " (%d failed)", failed)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview classifications without writing them")
	return cmd
}

// folderPathResolver lazily builds a Drive walker the first time a row is
// missing its stored folder path. Catalogs written by current sync runs
// never need it.
func folderPathResolver(runCtx context.Context, ctx *commandContext, logger *slog.Logger) func(folderID string) (string, error) {
	var walker *drive.Walker
	return func(folderID string) (string, error) {
		if walker == nil {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return "", err
			}
			client, err := drive.NewClient(runCtx, cfg.Drive, logger)
			if err != nil {
				return "", err
			}
			walker = drive.NewWalker(client, cfg.Drive, logger)
		}
		return walker.FolderPath(runCtx, folderID)
	}
}

func lastPathSegment(path string) string {
	if idx := strings.LastIndex(path, classify.PathSeparator); idx >= 0 {
		return path[idx+len(classify.PathSeparator):]
	}
	return path
}
