// Package config loads verifier and resolver settings from a YAML file
// with environment overrides. The library core never reads files or the
// environment itself; this package is the optional outer layer that feeds
// a verify.Config to applications.
package config

import (
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sensespace/did-go/resolver"
	"github.com/sensespace/did-go/token"
	"github.com/sensespace/did-go/verify"
)

// Settings is the merged configuration after defaults, file and env.
type Settings struct {
	AllowedIssuers  []string
	MaxTokenAge     time.Duration
	SubjectPrefix   string
	DocumentBaseURL string
	FetchRPS        float64
	FetchBurst      int
}

type fileConfig struct {
	Verifier verifierSection `yaml:"verifier"`
	Resolver resolverSection `yaml:"resolver"`
}

type verifierSection struct {
	AllowedIssuers []string `yaml:"allowedIssuers"`
	// MaxTokenAge is a Go duration string, e.g. "1h".
	MaxTokenAge   string `yaml:"maxTokenAge"`
	SubjectPrefix string `yaml:"subjectPrefix"`
}

type resolverSection struct {
	DocumentBaseURL string  `yaml:"documentBaseURL"`
	FetchRPS        float64 `yaml:"fetchRps"`
	FetchBurst      int     `yaml:"fetchBurst"`
}

func Defaults() Settings {
	return Settings{
		AllowedIssuers:  []string{token.DefaultIssuer},
		SubjectPrefix:   "5",
		DocumentBaseURL: resolver.DefaultBaseURL,
		FetchRPS:        5,
		FetchBurst:      10,
	}
}

// LoadFromPath reads the first readable candidate file, merges it over the
// defaults and applies env overrides. A missing or unparseable file falls
// back to defaults plus env.
func LoadFromPath(configPath string) Settings {
	cfg := Defaults()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates,
			"configs/sensespace.yaml",
			"sensespace.yaml",
		)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed fileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		merged := cfg
		merge(&merged, parsed)
		applyEnvOverrides(&merged)
		return merged
	}

	applyEnvOverrides(&cfg)
	return cfg
}

func merge(dst *Settings, src fileConfig) {
	if src.Verifier.AllowedIssuers != nil {
		dst.AllowedIssuers = src.Verifier.AllowedIssuers
	}
	if src.Verifier.MaxTokenAge != "" {
		if d, err := time.ParseDuration(src.Verifier.MaxTokenAge); err == nil {
			dst.MaxTokenAge = d
		}
	}
	if src.Verifier.SubjectPrefix != "" {
		dst.SubjectPrefix = src.Verifier.SubjectPrefix
	}
	if src.Resolver.DocumentBaseURL != "" {
		dst.DocumentBaseURL = src.Resolver.DocumentBaseURL
	}
	if src.Resolver.FetchRPS != 0 {
		dst.FetchRPS = src.Resolver.FetchRPS
	}
	if src.Resolver.FetchBurst != 0 {
		dst.FetchBurst = src.Resolver.FetchBurst
	}
}

func applyEnvOverrides(cfg *Settings) {
	if v := strings.TrimSpace(os.Getenv("SENSESPACE_DOC_BASE_URL")); v != "" {
		cfg.DocumentBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SENSESPACE_ALLOWED_ISSUERS")); v != "" {
		parts := strings.Split(v, ",")
		issuers := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				issuers = append(issuers, p)
			}
		}
		cfg.AllowedIssuers = issuers
	}
	if v := strings.TrimSpace(os.Getenv("SENSESPACE_MAX_TOKEN_AGE")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MaxTokenAge = d
		}
	}
}

// VerifierConfig builds a verify.Config from the settings, wiring an HTTP
// resolver against the configured document endpoint. A nil client selects
// the resolver's default.
func (s Settings) VerifierConfig(client *http.Client) verify.Config {
	return verify.Config{
		AllowedIssuers: s.AllowedIssuers,
		MaxTokenAge:    s.MaxTokenAge,
		SubjectPrefix:  s.SubjectPrefix,
		Resolver: resolver.NewHTTP(s.DocumentBaseURL, resolver.Options{
			Client:   client,
			FetchRPS: s.FetchRPS,
			Burst:    s.FetchBurst,
		}),
	}
}
