// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf-resolver/internal/history"
	"github.com/pdiddy/pdf-resolver/internal/logger"
	"github.com/pdiddy/pdf-resolver/internal/openaccess"
	"github.com/pdiddy/pdf-resolver/internal/rescache"
	"github.com/pdiddy/pdf-resolver/internal/resolver"
	"github.com/pdiddy/pdf-resolver/internal/rules"
	"github.com/pdiddy/pdf-resolver/internal/scrape"
	"github.com/pdiddy/pdf-resolver/internal/validate"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

const defaultUserAgent = "pdf-resolver/0.1"

// buildLogger returns a debug console logger when --verbose is set,
// otherwise a no-op logger so command output stays clean.
func buildLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop(), nil
	}
	return logger.New("debug", true)
}

// buildResolver wires the full engine: rules registry, open-access
// client, cache, scraper, validator, and the optional history store.
// The returned cleanup func must be called when the command finishes.
func buildResolver(cmd *cobra.Command, log *zap.Logger) (*resolver.Resolver, func() error, error) {
	rulesFile, _ := cmd.Flags().GetString("rules-file")
	if rulesFile == "" {
		rulesFile = viper.GetString("rules_file")
	}
	registry, err := rules.Load(rulesFile)
	if err != nil {
		return nil, nil, err
	}

	oaCfg := types.OpenAccessConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("open_access.timeout"),
			UserAgent: defaultUserAgent,
		},
		Email:      secretDefault("openalex-email", viper.GetString("open_access.email")),
		MaxRetries: viper.GetInt("open_access.max_retries"),
	}
	index := openaccess.New(oaCfg, log)

	cache := rescache.New(types.CacheConfig{
		PositiveTTL: viper.GetDuration("cache.positive_ttl"),
		NegativeTTL: viper.GetDuration("cache.negative_ttl"),
		MaxEntries:  viper.GetInt("cache.max_entries"),
	})
	scraper := scrape.New(types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{Timeout: viper.GetDuration("scrape.timeout")},
	}, cache, registry, log)
	validator := validate.New(types.ValidateConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("validate.timeout"),
			UserAgent: defaultUserAgent,
		},
	}, log)

	res := resolver.New(index, registry, scraper, validator)
	res.Log = log

	cleanup := func() error { return nil }
	if path := viper.GetString("history_db"); path != "" {
		store, err := history.NewStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening history database: %w", err)
		}
		res.History = store
		cleanup = store.Close
	}

	if noScrape, _ := cmd.Flags().GetBool("no-scrape"); noScrape {
		res.DisableScraping = true
	}
	return res, cleanup, nil
}

// buildSettings assembles the user resolution preferences from flags,
// config, and secrets.
func buildSettings(cmd *cobra.Command) (types.Settings, error) {
	priority, _ := cmd.Flags().GetString("priority")
	if priority == "" {
		priority = viper.GetString("source_priority")
	}
	if priority == "" {
		priority = string(types.PriorityPublisher)
	}
	if priority != string(types.PriorityPreprint) && priority != string(types.PriorityPublisher) {
		return types.Settings{}, fmt.Errorf("invalid --priority %q (want preprint or publisher)", priority)
	}

	useProxy, _ := cmd.Flags().GetBool("use-proxy")
	proxyURL, _ := cmd.Flags().GetString("proxy-url")
	proxyURL = secretDefault("proxy-url", firstNonEmpty(proxyURL, viper.GetString("proxy_url")))

	return types.Settings{
		SourcePriority: types.SourcePriority(priority),
		ProxyEnabled:   useProxy,
		ProxyURL:       proxyURL,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
