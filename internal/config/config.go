package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// Config is the root pipeline configuration.
type Config struct {
	Sources  SourcesConfig  `yaml:"sources"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Log      LogConfig      `yaml:"log"`
	Store    StoreConfig    `yaml:"store"`
}

// SourcesConfig locates the input dumps. All paths
// are read from disk by the corresponding reader package; the core never
// downloads them.
type SourcesConfig struct {
	IoWiktionaryDump string `yaml:"io_wiktionary_dump" env:"IDOLEX_IO_WIKTIONARY_DUMP"`
	EoWiktionaryDump string `yaml:"eo_wiktionary_dump" env:"IDOLEX_EO_WIKTIONARY_DUMP"`
	EnWiktionaryDump string `yaml:"en_wiktionary_dump" env:"IDOLEX_EN_WIKTIONARY_DUMP"`
	FrWiktionaryDump string `yaml:"fr_wiktionary_dump" env:"IDOLEX_FR_WIKTIONARY_DUMP"`
	IoWikipediaDump  string `yaml:"io_wikipedia_dump"  env:"IDOLEX_IO_WIKIPEDIA_DUMP"`
	LanglinkDump     string `yaml:"langlink_dump"      env:"IDOLEX_LANGLINK_DUMP"`
	WikidataDump     string `yaml:"wikidata_dump"      env:"IDOLEX_WIKIDATA_DUMP" env-default:""`
}

// PipelineConfig holds the configurable knobs.
type PipelineConfig struct {
	WikiTopN       int                               `yaml:"wiki_top_n" env:"IDOLEX_WIKI_TOP_N" env-default:"1000"`
	Force          bool                              `yaml:"force" env:"IDOLEX_FORCE" env-default:"false"`
	FromStage      string                            `yaml:"from_stage" env:"IDOLEX_FROM_STAGE" env-default:""`
	ProgressEvery  int                               `yaml:"progress_every" env:"IDOLEX_PROGRESS_EVERY" env-default:"10000"`
	Workers        int                               `yaml:"workers" env:"IDOLEX_WORKERS" env-default:"4"`
	OutputDir      string                            `yaml:"output_dir" env:"IDOLEX_OUTPUT_DIR" env-default:"./work"`
	ReportsDir     string                            `yaml:"reports_dir" env:"IDOLEX_REPORTS_DIR" env-default:"./reports"`
	StateFile      string                            `yaml:"state_file" env:"IDOLEX_STATE_FILE" env-default:"./work/pipeline_state.yaml"`
	SourceEnabled  map[domain.ProvenanceTag]bool    `yaml:"source_enabled"`
	SourcePriority map[domain.ProvenanceTag]int      `yaml:"source_priority"`
	SourceConf     map[domain.ProvenanceTag]float64 `yaml:"source_confidence"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"  env:"IDOLEX_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"IDOLEX_LOG_FORMAT" env-default:"console"`
}

// StoreConfig controls the content-addressed stage cache.
type StoreConfig struct {
	Path string `yaml:"path" env:"IDOLEX_STORE_PATH" env-default:"./work/idolex-cache.db"`
}

// EffectiveSources merges the builtin ProvenanceTag defaults with the
// config-level overrides,
// (source_enabled/source_priority/source_confidence).
func (c *Config) EffectiveSources() map[domain.ProvenanceTag]domain.SourceDefaults {
	out := domain.DefaultSources()
	for tag, enabled := range c.Pipeline.SourceEnabled {
		d := out[tag]
		d.Enabled = enabled
		out[tag] = d
	}
	for tag, priority := range c.Pipeline.SourcePriority {
		d := out[tag]
		d.Priority = priority
		out[tag] = d
	}
	for tag, conf := range c.Pipeline.SourceConf {
		d := out[tag]
		d.Confidence = conf
		out[tag] = d
	}
	return out
}

// ProgressLogInterval returns the configured progress cadence as used by
// streaming readers/parsers: long stages log progress every N pages.
func (c *Config) ProgressLogInterval() int {
	if c.Pipeline.ProgressEvery <= 0 {
		return 10000
	}
	return c.Pipeline.ProgressEvery
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags). The YAML file
// path is determined by the CONFIG_PATH env var (fallback "./config.yaml").
// If the file does not exist and CONFIG_PATH was not set explicitly,
// configuration is loaded from ENV + defaults only.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks the fields Load cannot default its way out of: the input
// dump paths are mandatory once a run actually starts a stage that reads
// them, but Validate only enforces the invariants that hold regardless of
// which stages are selected.
func (c *Config) Validate() error {
	if c.Pipeline.WikiTopN <= 0 {
		return fmt.Errorf("config: wiki_top_n must be positive, got %d", c.Pipeline.WikiTopN)
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Pipeline.Workers)
	}
	return nil
}
