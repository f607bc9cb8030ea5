package treedex

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration consulted once at startup to
// seed SetRanking/SetCollectionWeights/LoadGlossary (§6's "Config
// inputs"). It is never read during scoring itself.
type Config struct {
	Ranking     RankingConfig        `yaml:"ranking"`
	Collections map[string]float64   `yaml:"collections"`
	GlossaryPath string              `yaml:"glossary_path"`
	SummaryLen  int                  `yaml:"summary_len"`
	Logging     LoggingConfig        `yaml:"logging"`
}

// RankingConfig mirrors RankingParams with yaml tags, so missing fields
// in the config file simply keep their DefaultRankingParams() value.
type RankingConfig struct {
	K1                 *float64 `yaml:"k1"`
	B                  *float64 `yaml:"b"`
	TitleWeight        *float64 `yaml:"title_weight"`
	CodeWeight         *float64 `yaml:"code_weight"`
	DescriptionWeight  *float64 `yaml:"description_weight"`
	TermProximityBonus *float64 `yaml:"term_proximity_bonus"`
	FullCoverageBonus  *float64 `yaml:"full_coverage_bonus"`
	PrefixPenalty      *float64 `yaml:"prefix_penalty"`
}

// DefaultConfig returns a config with default ranking parameters, no
// collection weights, no glossary, and stderr-only info logging.
func DefaultConfig() Config {
	return Config{
		SummaryLen: defaultSnippetLen,
		Logging:    DefaultLoggingConfig(),
	}
}

// LoadConfig reads path as YAML, falling back to DefaultConfig() when
// path does not exist. Afterward, the environment variables
// TREEDEX_RANKING_K1, TREEDEX_RANKING_B, TREEDEX_LOGGING_LEVEL and
// TREEDEX_GLOSSARY_PATH override the matching fields; no other field
// has an environment override.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("treedex: reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("treedex: parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// RankingParams merges the config's overrides onto DefaultRankingParams().
func (c Config) RankingParams() RankingParams {
	p := DefaultRankingParams()
	r := c.Ranking
	if r.K1 != nil {
		p.K1 = *r.K1
	}
	if r.B != nil {
		p.B = *r.B
	}
	if r.TitleWeight != nil {
		p.TitleWeight = *r.TitleWeight
	}
	if r.CodeWeight != nil {
		p.CodeWeight = *r.CodeWeight
	}
	if r.DescriptionWeight != nil {
		p.DescriptionWeight = *r.DescriptionWeight
	}
	if r.TermProximityBonus != nil {
		p.TermProximityBonus = *r.TermProximityBonus
	}
	if r.FullCoverageBonus != nil {
		p.FullCoverageBonus = *r.FullCoverageBonus
	}
	if r.PrefixPenalty != nil {
		p.PrefixPenalty = *r.PrefixPenalty
	}
	return p
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("TREEDEX_RANKING_K1"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ranking.K1 = &f
		}
	}
	if v, ok := os.LookupEnv("TREEDEX_RANKING_B"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ranking.B = &f
		}
	}
	if v, ok := os.LookupEnv("TREEDEX_LOGGING_LEVEL"); ok && strings.TrimSpace(v) != "" {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv("TREEDEX_GLOSSARY_PATH"); ok && strings.TrimSpace(v) != "" {
		cfg.GlossaryPath = v
	}
}
