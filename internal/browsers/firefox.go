package browsers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Discovery is the outcome of scanning a profile root.
type Discovery struct {
	Root        string            `json:"root"`
	Directories []string          `json:"directories"`
	Profiles    []string          `json:"profiles"`
	Manifest    []string          `json:"manifest"`
	Databases   map[string]string `json:"databases"`
}

// Firefox discovers Firefox profiles and their history databases.
type Firefox struct {
	config   BrowserConfig
	goos     string
	username string
	root     string
	pattern  *regexp.Regexp
	parallel bool
	logger   zerolog.Logger
}

// Option customises a Firefox scanner.
type Option func(*Firefox)

// WithRoot skips platform resolution and scans root directly.
func WithRoot(root string) Option { return func(f *Firefox) { f.root = root } }

// WithPlatform overrides the platform and user used to resolve the root.
func WithPlatform(goos, username string) Option {
	return func(f *Firefox) {
		f.goos = goos
		f.username = username
	}
}

// WithProfilePattern replaces the profile directory pattern.
func WithProfilePattern(pattern string) Option {
	return func(f *Firefox) { f.config.ProfilePattern = pattern }
}

// WithDataStoreFile replaces the name of the per-profile history file.
func WithDataStoreFile(name string) Option {
	return func(f *Firefox) { f.config.DataStoreFile = name }
}

// WithParallel searches profile directories concurrently.
func WithParallel(parallel bool) Option { return func(f *Firefox) { f.parallel = parallel } }

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger zerolog.Logger) Option { return func(f *Firefox) { f.logger = logger } }

// NewFirefox creates a Firefox scanner for the running platform.
func NewFirefox(opts ...Option) (*Firefox, error) {
	f := &Firefox{
		config: FirefoxConfig(),
		goos:   runtime.GOOS,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	pattern, err := regexp.Compile(f.config.ProfilePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid profile pattern %q: %w", f.config.ProfilePattern, err)
	}
	f.pattern = pattern
	return f, nil
}

// Discover locates the profile root, selects and validates profiles, and
// maps each profile to its history database.
func (f *Firefox) Discover(ctx context.Context) (*Discovery, error) {
	root, err := f.resolveRoot()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootNotFound, err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w at %s", ErrRootNotFound, root)
	}
	f.logger.Debug().Str("root", root).Msg("Resolved profile root")

	d := &Discovery{Root: root}
	d.Directories = ListSubdirectories(root)
	d.Profiles = FilterProfiles(d.Directories, f.pattern)
	if len(d.Profiles) == 0 {
		return nil, fmt.Errorf("%w in %s (directories: %v)", ErrNoProfilesFound, root, d.Directories)
	}
	f.logger.Debug().Strs("profiles", d.Profiles).Msg("Selected profile directories")

	manifestPath := filepath.Join(root, f.config.Manifest)
	d.Manifest, err = ReadManifest(manifestPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.logger.Debug().Str("manifest", manifestPath).Msg("Manifest not found, skipping validation")
	case err != nil:
		return nil, err
	}
	if err := ValidateManifest(d.Manifest, d.Profiles); err != nil {
		return nil, err
	}

	d.Databases, err = f.databaseMap(ctx, root, d.Profiles)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (f *Firefox) resolveRoot() (string, error) {
	if f.root != "" {
		return f.root, nil
	}
	username := f.username
	if username == "" {
		var err error
		if username, err = CurrentUsername(); err != nil {
			return "", err
		}
	}
	return f.config.ResolveRoot(f.goos, username)
}

// FilterProfiles keeps the directory names matching pattern, in order.
func FilterProfiles(dirs []string, pattern *regexp.Regexp) []string {
	profiles := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if pattern.MatchString(dir) {
			profiles = append(profiles, dir)
		}
	}
	return profiles
}

// databaseMap finds the data store file of every profile. Profiles without
// one are left out.
func (f *Firefox) databaseMap(ctx context.Context, root string, profiles []string) (map[string]string, error) {
	databases := make(map[string]string, len(profiles))

	if !f.parallel {
		for _, profile := range profiles {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if path, ok := f.findDataStore(root, profile); ok {
				databases[profile] = path
			}
		}
		return databases, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, profile := range profiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, ok := f.findDataStore(root, profile)
			if !ok {
				return nil
			}
			mu.Lock()
			databases[profile] = path
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return databases, nil
}

func (f *Firefox) findDataStore(root, profile string) (string, bool) {
	path, ok := FindFile(filepath.Join(root, profile), f.config.DataStoreFile)
	if !ok {
		f.logger.Debug().Str("profile", profile).Msgf("Note: %s not found, skipping profile", f.config.DataStoreFile)
		return "", false
	}
	f.logger.Debug().Str("profile", profile).Str("path", path).Msg("Found data store")
	return path, true
}
