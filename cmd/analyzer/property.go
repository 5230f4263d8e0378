package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"review_insight/internal/adapters/cupid"
	"review_insight/internal/adapters/memcache"
	"review_insight/internal/app"
	"review_insight/internal/domain"
)

func newPropertyCmd(o *options) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "property ID...",
		Short: "Analyse the reviews of properties from MySQL or Cupid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := strconv.ParseInt(a, 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid property id %q", a)
				}
				ids = append(ids, id)
			}
			ctx := cmd.Context()

			engine, err := o.engine()
			if err != nil {
				return err
			}
			var (
				db      app.ReviewSource
				reviews domain.ReviewClient
			)
			switch source {
			case app.SourceMySQL:
				repo, closeDB, err := o.openRepo(ctx)
				if err != nil {
					return err
				}
				defer closeDB()
				db = repo
			case app.SourceCupid:
				c, err := cupid.New(o.env.CupidBase, o.env.CupidKey, 5)
				if err != nil {
					return fmt.Errorf("cupid: %w", err)
				}
				reviews = c
			}
			results := app.NewResultService(engine, memcache.New(len(ids), o.env.ResultTTL), o.env.ResultTTL)
			svc := app.NewPropertyService(results, db, reviews, o.env.ReviewCount)

			w := cmd.OutOrStdout()
			failed := 0
			for _, id := range ids {
				res, err := svc.AnalyzeProperty(ctx, id, source, o.cfg)
				if err != nil {
					failed++
					fmt.Fprintf(w, "property %d: %v\n", id, err)
					continue
				}
				printResult(w, fmt.Sprintf("property %d", id), res)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d properties failed", failed, len(ids))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", app.SourceMySQL, "review source: mysql|cupid")
	return cmd
}
