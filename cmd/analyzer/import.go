package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"review_insight/internal/loader"
)

func newImportCmd(o *options) *cobra.Command {
	var property int64
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Store CSV reviews of a property in MySQL",
		Long: `import loads CSV files the same way "run" does and upserts the reviews
into the reviews table. Ratings are stored on the 5-point scale.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if property <= 0 {
				return fmt.Errorf("--property must be a positive id")
			}
			ctx := cmd.Context()
			repo, closeDB, err := o.openRepo(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			w := cmd.OutOrStdout()
			for _, path := range args {
				t, err := loader.ReadFile(path)
				if err != nil {
					return err
				}
				ds, err := loader.Load(t, loader.Options{RatingScale: o.cfg.RatingScale})
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if err := repo.UpsertReviews(ctx, property, ds.Reviews); err != nil {
					return fmt.Errorf("%s: store: %w", path, err)
				}
				fmt.Fprintf(w, "%s: %d reviews stored for property %d (%d values treated as missing)\n",
					path, len(ds.Reviews), property, len(ds.Warnings))
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&property, "property", 0, "property id the reviews belong to")
	_ = cmd.MarkFlagRequired("property")
	return cmd
}
