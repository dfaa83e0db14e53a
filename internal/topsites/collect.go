package topsites

import (
	"context"
	"maps"
	"slices"

	"github.com/rs/zerolog"
)

// URLSource reads the visited URLs stored in a history database.
type URLSource interface {
	FetchURLs(ctx context.Context, path string) ([]string, error)
}

// Collect reads the URLs of every profile in databases. A profile whose
// database cannot be read is logged and mapped to no URLs.
func Collect(ctx context.Context, databases map[string]string, src URLSource, logger zerolog.Logger) map[string][]string {
	profileURLs := make(map[string][]string, len(databases))
	for _, profile := range slices.Sorted(maps.Keys(databases)) {
		path := databases[profile]
		urls, err := src.FetchURLs(ctx, path)
		if err != nil {
			logger.Warn().Err(err).Str("profile", profile).Str("path", path).Msg("Skipping profile history")
			urls = []string{}
		}
		logger.Debug().Str("profile", profile).Int("url_count", len(urls)).Msg("Read profile history")
		profileURLs[profile] = urls
	}
	return profileURLs
}

// Summarize collects every profile's URLs and ranks their domains.
func Summarize(ctx context.Context, databases map[string]string, src URLSource, canon Canonicalizer, n int, logger zerolog.Logger) map[string][]Site {
	return RankDomains(Collect(ctx, databases, src, logger), canon, n)
}
