package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"airbnb-cleaner/models"
	"airbnb-cleaner/services"
	"airbnb-cleaner/storage"
)

// inputFlags are shared by every command that reads a raw listings file.
type inputFlags struct {
	input       string
	delimiter   string
	encoding    string
	dateLayouts []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "raw listings CSV (default $INPUT_PATH)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", `field delimiter, e.g. ";" or "\t" (default $CSV_DELIMITER)`)
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "input charset: utf-8, windows-1252, latin1 (default $INPUT_ENCODING)")
	cmd.Flags().StringArrayVar(&f.dateLayouts, "date-layout", nil, "Go time layout for last_review, repeatable")
}

func (f *inputFlags) readOptions() (storage.ReadOptions, error) {
	opts := storage.ReadOptions{Delimiter: cfg.CSVDelimiter, Encoding: cfg.InputEncoding}
	if f.encoding != "" {
		opts.Encoding = f.encoding
	}
	if f.delimiter != "" {
		d, err := parseDelimiter(f.delimiter)
		if err != nil {
			return opts, err
		}
		opts.Delimiter = d
	}
	return opts, nil
}

func (f *inputFlags) inputPath() string {
	if f.input != "" {
		return f.input
	}
	return cfg.InputPath
}

func (f *inputFlags) cleaner() *services.Cleaner {
	layouts := f.dateLayouts
	if len(layouts) == 0 {
		layouts = cfg.DateLayouts
	}
	return services.NewCleaner(logger, services.WithDateLayouts(layouts...))
}

// load reads and cleans the input file, returning both the raw table and
// the cleaned dataset.
func (f *inputFlags) load() (*models.Table, *models.Dataset, error) {
	opts, err := f.readOptions()
	if err != nil {
		return nil, nil, err
	}

	path := f.inputPath()
	logger.Info("Loading %s", path)
	table, err := storage.LoadCSV(path, opts)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Loaded %d rows x %d columns", table.Len(), len(table.Header))

	ds, err := f.cleaner().Clean(table)
	if err != nil {
		return nil, nil, err
	}
	return table, ds, nil
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func cleanCmd() *cobra.Command {
	var (
		in      inputFlags
		output  string
		format  string
		profile bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean a listings file and save the result",
		Example: `  airbnb-cleaner clean -i data/listings.csv -o output/listings_clean.csv
  airbnb-cleaner clean -i data/listings.csv -o output/listings.xlsx --profile
  airbnb-cleaner clean -i data/listings.csv --format postgres`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			raw, ds, err := in.load()
			if err != nil {
				return err
			}

			if format == "" {
				format = cfg.OutputFormat
			}
			target := output
			if target == "" {
				if format == storage.FormatPostgres {
					target = cfg.DSN()
				} else {
					target = cfg.OutputPath
				}
			}

			opts, err := in.readOptions()
			if err != nil {
				return err
			}
			w, err := storage.NewWriter(ctx, format, target, opts.Delimiter, logger)
			if err != nil {
				return err
			}
			if err := w.Write(ctx, ds); err != nil {
				_ = w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}

			if format == storage.FormatPostgres {
				logger.Info("Saved %d listings to PostgreSQL", len(ds.Listings))
			} else {
				logger.Info("Saved %d listings to %s", len(ds.Listings), target)
			}

			if profile {
				svc := services.NewProfileService(logger)
				svc.Print(os.Stdout, svc.Generate(raw, ds))
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path or postgres DSN (default $OUTPUT_PATH)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: csv, xlsx, postgres (default: from output extension)")
	cmd.Flags().BoolVar(&profile, "profile", false, "print a missingness profile after cleaning")
	return cmd
}
