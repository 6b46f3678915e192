package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"reelsync/internal/catalog"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-status catalog row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.CountByStatus(cmd.Context())
			if err != nil {
				return err
			}

			statuses := make([]string, 0, len(counts))
			for status := range counts {
				statuses = append(statuses, string(status))
			}
			sort.Strings(statuses)

			total := 0
			rows := make([][]string, 0, len(statuses)+1)
			for _, status := range statuses {
				count := counts[catalog.Status(status)]
				total += count
				rows = append(rows, []string{status, strconv.Itoa(count)})
			}
			rows = append(rows, []string{"total", strconv.Itoa(total)})

			out := cmd.OutOrStdout()
			writeTable(out, []string{"Status", "Rows"}, rows, []columnAlignment{alignLeft, alignRight})
			fmt.Fprintf(out, "Catalog: %s\n", store.Path())
			return nil
		},
	}
}
