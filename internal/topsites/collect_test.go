package topsites

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	urls  map[string][]string
	fail  map[string]bool
	calls []string
}

func (f *fakeSource) FetchURLs(_ context.Context, path string) ([]string, error) {
	f.calls = append(f.calls, path)
	if f.fail[path] {
		return nil, errors.New("database is locked")
	}
	return f.urls[path], nil
}

func TestSummarize_PartialFailure(t *testing.T) {
	c := require.New(t)

	src := &fakeSource{
		urls: map[string][]string{
			"/p/a/places.sqlite": {"https://www.example.com", "https://mail.example.com", "https://go.dev"},
			"/p/c/places.sqlite": {"https://news.example.co.uk"},
		},
		fail: map[string]bool{"/p/b/places.sqlite": true},
	}
	databases := map[string]string{
		"c.default": "/p/c/places.sqlite",
		"a.default": "/p/a/places.sqlite",
		"b.default": "/p/b/places.sqlite",
	}

	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	ranked := Summarize(context.Background(), databases, src, Heuristic{}, 5, logger)
	c.Equal(map[string][]Site{
		"a.default": {{Domain: "example.com", Count: 2}, {Domain: "go.dev", Count: 1}},
		"b.default": {},
		"c.default": {{Domain: "example.co.uk", Count: 1}},
	}, ranked)

	c.Equal([]string{"/p/a/places.sqlite", "/p/b/places.sqlite", "/p/c/places.sqlite"}, src.calls)
	c.Contains(logs.String(), `"level":"warn"`)
	c.Contains(logs.String(), `"profile":"b.default"`)
	c.Contains(logs.String(), "database is locked")
}

func TestCollect_Empty(t *testing.T) {
	c := require.New(t)
	src := &fakeSource{}
	c.Empty(Collect(context.Background(), map[string]string{}, src, zerolog.Nop()))
	c.Empty(src.calls)
}
