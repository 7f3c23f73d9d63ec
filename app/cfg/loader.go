package cfg

import (
	"cmp"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	CatalogPath string `long:"catalog" env:"CATALOG_PATH" description:"Feed catalog file (.opml, .json, .yaml); defaults to config/feeds.opml, then config/feeds.json"`
	DBPath      string `long:"db-path" env:"DB_PATH" default:"data/articles.db" description:"SQLite database file"`
	DigestsDir  string `long:"digests-dir" env:"DIGESTS_DIR" default:"digests" description:"Directory for daily digest files"`

	// Batch configuration
	HoursBack   int    `long:"hours-back" env:"HOURS_BACK" default:"24" description:"Only keep articles published within this many hours"`
	PerFeedCap  int    `long:"per-feed-cap" env:"PER_FEED_CAP" default:"15" description:"Maximum number of articles taken from each feed"`
	WorkerCount int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of parallel fetch and enrichment workers"`
	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"RSS Digest/1.0" description:"User agent string for HTTP requests"`

	// Summarization providers
	HFToken      string   `long:"hf-token" env:"HF_TOKEN" description:"Hugging Face inference API token (optional)"`
	HFModels     []string `long:"hf-model" env:"HF_MODELS" env-delim:"," description:"Hugging Face summarization model, tried in the given order (repeatable)"`
	OpenAIAPIKey string   `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key (optional)"`
	OpenAIModel  string   `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-3.5-turbo" description:"OpenAI chat model used for summaries"`

	// HTTP status surface
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for day boundaries (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type onceCmd struct{}

type scheduleCmd struct{}

type statsCmd struct{}

type serveCmd struct{}

type convertCmd struct {
	Output string `long:"output" short:"o" required:"true" description:"Target catalog file; format follows the extension"`
}

type digestCmd struct {
	Date string `long:"date" description:"Day to recompose as YYYY-MM-DD (defaults to today)"`
}

type backfillCmd struct {
	Limit int `long:"limit" default:"50" description:"Maximum number of unsummarized articles to process"`
}

func Load() (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: Failed to load .env file: %v\n", err)
	}

	cfg, err := parse(os.Args[1:])
	if err != nil || cfg == nil {
		return cfg, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func parse(args []string) (*Cfg, error) {
	var (
		raw      rawCfg
		convert  convertCmd
		digest   digestCmd
		backfill backfillCmd
	)

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	commands := []struct {
		name, short string
		data        any
	}{
		{CommandOnce, "Run a single batch and compose today's digest", &onceCmd{}},
		{CommandSchedule, "Run a batch now, then on schedule (default)", &scheduleCmd{}},
		{CommandStats, "Show catalog and store statistics", &statsCmd{}},
		{CommandConvert, "Convert the feed catalog to another format", &convert},
		{CommandDigest, "Recompose the digest for a day", &digest},
		{CommandBackfill, "Summarize stored articles that have no summary", &backfill},
		{CommandServe, "Serve the status API and run the scheduler", &serveCmd{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, "", c.data); err != nil {
			return nil, fmt.Errorf("failed to register command %s: %w", c.name, err)
		}
	}

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("unknown command: %s", rest[0])
	}

	command := CommandSchedule
	if parser.Active != nil {
		command = parser.Active.Name
	}

	return &Cfg{
		Command:       command,
		CatalogPath:   raw.CatalogPath,
		DBPath:        raw.DBPath,
		DigestsDir:    raw.DigestsDir,
		HoursBack:     raw.HoursBack,
		PerFeedCap:    raw.PerFeedCap,
		WorkerCount:   raw.WorkerCount,
		UserAgent:     raw.UserAgent,
		HFToken:       raw.HFToken,
		HFModels:      raw.HFModels,
		OpenAIAPIKey:  raw.OpenAIAPIKey,
		OpenAIModel:   raw.OpenAIModel,
		Port:          raw.Port,
		APIAccessKey:  raw.APIAccessKey,
		ConvertOutput: convert.Output,
		DigestDate:    digest.Date,
		BackfillLimit: backfill.Limit,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
