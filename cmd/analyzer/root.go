package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"review_insight/internal/adapters/observability"
	"review_insight/internal/adapters/scoring"
	"review_insight/internal/app"
	"review_insight/internal/domain"
	"review_insight/internal/shared"
	mysqlrepo "review_insight/internal/storage/mysql"
)

// options holds the persistent flags and what PersistentPreRunE derives from them.
type options struct {
	granularity string
	threshold   string
	weights     string
	ratingScale int
	lexicon     string
	workers     int
	verbose     bool

	env shared.Config
	cfg domain.Config
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "analyzer",
		Short: "Hotel review analysis",
		Long: `analyzer scores review datasets for sentiment, aspects, trends and
improvement priorities.

Defaults come from the environment (and .env); flags override them.

Examples:
  analyzer run reviews.csv                  # analyse one file
  analyzer run -o out/ a.csv b.csv          # also write a.analysis.json, b.analysis.json
  analyzer run --granularity year x.csv     # yearly trend buckets
  analyzer import --property 7 reviews.csv  # store reviews in MySQL
  analyzer property 7 --source cupid        # analyse reviews fetched from Cupid`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.init(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.granularity, "granularity", "", "trend granularity: year|quarter")
	f.StringVar(&o.threshold, "threshold", "", "sentiment neutrality threshold in [0,1)")
	f.StringVar(&o.weights, "weights", "", `priority weights "volume,negativity,trend"`)
	f.IntVar(&o.ratingScale, "rating-scale", 0, "scale of input ratings: 5|10")
	f.StringVar(&o.lexicon, "lexicon", "", "YAML file of aspect terms")
	f.IntVar(&o.workers, "workers", 0, "review workers per analysis (0 = GOMAXPROCS)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(newRunCmd(o), newPropertyCmd(o), newImportCmd(o))
	return root
}

func (o *options) init(cmd *cobra.Command) error {
	o.env = shared.Load()

	log.Logger = observability.NewLoggerTo(cmd.ErrOrStderr(), o.env.AppEnv)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if o.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	flags := cmd.Flags()
	if flags.Changed("granularity") {
		o.env.Granularity = o.granularity
	}
	if flags.Changed("threshold") {
		o.env.Threshold = o.threshold
	}
	if flags.Changed("weights") {
		o.env.Weights = o.weights
	}
	if flags.Changed("rating-scale") {
		o.env.RatingScale = o.ratingScale
	}
	if flags.Changed("lexicon") {
		o.env.LexiconFile = o.lexicon
	}
	if flags.Changed("workers") {
		o.env.Workers = o.workers
	}

	cfg, err := o.env.Analysis()
	if err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func (o *options) engine() (*app.Engine, error) {
	var opts []app.Option
	if o.env.ScoringURL != "" {
		sc, err := scoring.New(o.env.ScoringURL, o.env.ScoringKey, 10)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithClassifier(sc))
	}
	return app.NewEngine(opts...), nil
}

// openRepo connects to MYSQL_DSN and makes sure the reviews table exists.
func (o *options) openRepo(ctx context.Context) (*mysqlrepo.Repo, func(), error) {
	if o.env.MySQLDSN == "" {
		return nil, nil, fmt.Errorf("MYSQL_DSN is not set: %w", domain.ErrSourceUnavailable)
	}
	db, err := sql.Open("mysql", o.env.MySQLDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	repo := mysqlrepo.New(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	log.Debug().Msg("database connection ok")
	return repo, func() { _ = db.Close() }, nil
}
