package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"airbnb-cleaner/scraper/insideairbnb"
)

func fetchCmd() *cobra.Command {
	var (
		cities  []string
		dataDir string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the latest listings.csv for one or more cities",
		Example: `  airbnb-cleaner fetch --city albany
  airbnb-cleaner fetch --city "new york city" --city boston --data-dir ./data
  airbnb-cleaner fetch --list`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !list && len(cities) == 0 {
				return fmt.Errorf("at least one --city is required")
			}

			f := insideairbnb.New(cfg, logger, nil)
			sources, err := f.Discover(ctx)
			if err != nil {
				return err
			}

			if list {
				renderSources(cmd.OutOrStdout(), sources)
				return nil
			}

			picked, err := insideairbnb.Select(sources, cities)
			if err != nil {
				return err
			}

			if dataDir == "" {
				dataDir = cfg.DataDir
			}
			paths, err := f.Download(ctx, picked, dataDir)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}

	cmd.Flags().StringArrayVar(&cities, "city", nil, "city slug or name, repeatable")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "download directory (default $DATA_DIR)")
	cmd.Flags().BoolVar(&list, "list", false, "list every available snapshot instead of downloading")
	return cmd
}

// renderSources prints every discovered snapshot, newest first per city.
func renderSources(w io.Writer, sources []insideairbnb.Source) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"City", "Snapshot", "URL"})
	for _, s := range sources {
		t.AppendRow(table.Row{s.City, s.Date.Format("2006-01-02"), s.URL})
	}
	t.AppendFooter(table.Row{"", "Total", len(sources)})
	t.Render()
}
