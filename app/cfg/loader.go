package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// File locations
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file listing the news sources to collect"`
	StateFile   string `long:"state-file" env:"STATE_FILE" default:"./data/articles.json" description:"Durable article store, rewritten in full on every run"`
	OutputDir   string `long:"output-dir" env:"OUTPUT_DIR" default:"./public" description:"Directory for the rendered pages (index.html and archive/)"`

	// Store bounds
	MaxStoreSize int `long:"max-store-size" env:"MAX_STORE_SIZE" default:"500" description:"Maximum number of articles kept in the store"`
	LiveLimit    int `long:"live-limit" env:"LIVE_LIMIT" default:"150" description:"Number of articles shown on the live page"`

	// Extraction thresholds
	SourceLimit    int `long:"source-limit" env:"SOURCE_LIMIT" default:"15" description:"Maximum candidates accepted per source per run"`
	MinTitleLength int `long:"min-title-length" env:"MIN_TITLE_LENGTH" default:"30" description:"Minimum normalized title length, shorter candidates are discarded"`
	MinAnchorText  int `long:"min-anchor-text" env:"MIN_ANCHOR_TEXT" default:"30" description:"Minimum raw anchor text length for page sources"`

	// Presentation
	SimilarityThreshold float64 `long:"similarity-threshold" env:"SIMILARITY_THRESHOLD" default:"0.6" description:"Jaccard threshold above which near-duplicate titles are grouped"`

	// Archive
	ArchiveHour int `long:"archive-hour" env:"ARCHIVE_HOUR" default:"7" description:"Local hour during which the previous day's archive is cut"`

	// Fetching
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Per-source HTTP timeout in seconds"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; newsraw/1.0)" description:"User agent string for HTTP requests"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of workers fetching sources concurrently"`

	// Run modes
	Daemon   bool   `long:"daemon" env:"DAEMON" description:"Keep running and collect on a cron schedule instead of once"`
	CronSpec string `long:"cron" env:"CRON_SPEC" default:"0 * * * *" description:"Cron schedule for daemon mode"`
	Serve    bool   `long:"serve" env:"SERVE" description:"Serve the rendered output directory over HTTP"`
	Port     string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for serve mode"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"Asia/Tokyo" description:"Timezone for discovery dates and the archive trigger"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourcesFile:         raw.SourcesFile,
		StateFile:           raw.StateFile,
		OutputDir:           raw.OutputDir,
		MaxStoreSize:        raw.MaxStoreSize,
		LiveLimit:           raw.LiveLimit,
		SourceLimit:         raw.SourceLimit,
		MinTitleLength:      raw.MinTitleLength,
		MinAnchorText:       raw.MinAnchorText,
		SimilarityThreshold: raw.SimilarityThreshold,
		ArchiveHour:         raw.ArchiveHour,
		FetchTimeout:        raw.FetchTimeout,
		UserAgent:           raw.UserAgent,
		WorkerCount:         raw.WorkerCount,
		Daemon:              raw.Daemon,
		CronSpec:            raw.CronSpec,
		Serve:               raw.Serve,
		Port:                raw.Port,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
