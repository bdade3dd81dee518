package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/barbot/core/cmd"
	coredatabase "github.com/m3rciful/barbot/core/database"
	"github.com/m3rciful/barbot/internal/app"
	"github.com/m3rciful/barbot/internal/journal"
)

var searchesLimit int

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "List the most recent searches from the journal database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := corecmd.ResolveConfigPath(corecmd.Options{
			ConfigPath:        cfgFile,
			DefaultConfigPath: "config.yaml",
		})
		if err != nil {
			return err
		}
		cfg, err := app.Load(path)
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled() {
			return fmt.Errorf("no database configured; set database.host or DB_HOST")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, err := coredatabase.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		rows, err := journal.NewStore(db).Recent(ctx, searchesLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tCHAT\tLAT\tLON\tPROVIDER\tRESULTS")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%d\t%.5f\t%.5f\t%s\t%d\n",
				r.CreatedAt.Format(time.RFC3339), r.ChatID, r.Latitude, r.Longitude, r.Provider, r.Results)
		}
		return w.Flush()
	},
}

func init() {
	searchesCmd.Flags().IntVar(&searchesLimit, "limit", 20, "number of searches to show")
	rootCmd.AddCommand(searchesCmd)
}
