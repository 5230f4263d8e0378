package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"review_insight/internal/aspect"
	"review_insight/internal/domain"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string // empty disables the database source
	RedisAddr      string // empty keeps results in memory
	RedisDB        int
	RedisPass      string
	CupidBase      string
	CupidKey       string
	ReviewCount    int
	ScoringURL     string // empty uses the lexicon classifier only
	ScoringKey     string
	ResultTTL      time.Duration
	MaxUpload      int64
	RequestTimeout time.Duration

	// analysis defaults, parsed by Analysis
	Workers     int
	Threshold   string
	Granularity string
	Weights     string
	RatingScale int
	LexiconFile string
}

// Load reads the environment, after a best-effort .env in the working directory.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg(".env loaded")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CupidBase:      env("CUPID_BASE_URL", "https://content-api.cupid.travel/v3.0"),
		CupidKey:       env("CUPID_API_KEY", ""),
		ReviewCount:    atoi("CUPID_REVIEW_COUNT", 100),
		ScoringURL:     env("SCORING_URL", ""),
		ScoringKey:     env("SCORING_API_KEY", ""),
		ResultTTL:      time.Duration(atoi("RESULT_TTL_SECONDS", 3600)) * time.Second,
		MaxUpload:      int64(atoi("MAX_UPLOAD_BYTES", 32<<20)),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		Workers:        atoi("ANALYSIS_WORKERS", 0),
		Threshold:      env("SENTIMENT_THRESHOLD", "0.1"),
		Granularity:    env("TREND_GRANULARITY", string(domain.Quarterly)),
		Weights:        env("PRIORITY_WEIGHTS", ""),
		RatingScale:    atoi("RATING_SCALE", 5),
		LexiconFile:    env("LEXICON_FILE", ""),
	}
}

// Analysis builds the validated default analysis configuration.
func (c Config) Analysis() (domain.Config, error) {
	out := domain.Config{
		Granularity: domain.Granularity(strings.ToLower(c.Granularity)),
		Weights:     domain.EqualWeights,
		Lexicons:    aspect.DefaultLexicons(),
		RatingScale: c.RatingScale,
		Workers:     c.Workers,
		TopKeywords: 10,
	}
	th, err := strconv.ParseFloat(strings.TrimSpace(c.Threshold), 64)
	if err != nil {
		return out, &domain.ConfigurationError{Field: "threshold", Reason: fmt.Sprintf("%q is not a number", c.Threshold)}
	}
	out.Threshold = th
	if c.Weights != "" {
		if out.Weights, err = domain.ParseWeights(c.Weights); err != nil {
			return out, err
		}
	}
	if c.LexiconFile != "" {
		custom, err := LoadLexicons(c.LexiconFile)
		if err != nil {
			return out, err
		}
		for a, terms := range custom {
			out.Lexicons[a] = terms
		}
	}
	return out, out.Validate()
}

// LoadLexicons reads a YAML mapping of aspect name to term list. Aspects the
// file names replace the built-in terms; the rest keep them.
func LoadLexicons(path string) (map[domain.Aspect][]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}
	var raw map[string][]string
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, &domain.ConfigurationError{Field: "lexicons", Reason: err.Error()}
	}
	out := make(map[domain.Aspect][]string, len(raw))
	for k, terms := range raw {
		a, ok := domain.ParseAspect(k)
		if !ok {
			return nil, &domain.ConfigurationError{Field: "lexicons", Reason: fmt.Sprintf("unknown aspect %q", k)}
		}
		out[a] = terms
	}
	return out, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
