package main

import (
	"github.com/spf13/cobra"

	"airbnb-cleaner/models"
	"airbnb-cleaner/services"
	"airbnb-cleaner/storage"
)

func profileCmd() *cobra.Command {
	var (
		in     inputFlags
		fromDB bool
		dsn    string
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print a missingness profile of cleaned listings",
		Long: `Loads and cleans a listings file, then reports row and duplicate counts,
the share of missing values per column, and number_of_reviews statistics
split by whether the title carries a star rating.

With --from-db the cleaned rows are read back from PostgreSQL instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var (
				raw *models.Table
				ds  *models.Dataset
				err error
			)
			if fromDB {
				if dsn == "" {
					dsn = cfg.DSN()
				}
				pw, err := storage.NewPostgresWriter(ctx, dsn, logger)
				if err != nil {
					return err
				}
				defer pw.Close()

				if ds, err = pw.FetchAll(ctx); err != nil {
					return err
				}
				logger.Info("Fetched %d listings from PostgreSQL", len(ds.Listings))
			} else {
				if raw, ds, err = in.load(); err != nil {
					return err
				}
			}

			svc := services.NewProfileService(logger)
			svc.Print(cmd.OutOrStdout(), svc.Generate(raw, ds))
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "profile the rows stored in PostgreSQL")
	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string (default: built from POSTGRES_*)")
	return cmd
}
