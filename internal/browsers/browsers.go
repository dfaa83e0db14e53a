package browsers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported is returned when the platform has no known profile root.
	ErrUnsupported = errors.New("unsupported operating system")
	// ErrUnknownBrowser is returned for a browser name with no configuration.
	ErrUnknownBrowser = errors.New("unknown browser")
	// ErrRootNotFound is returned when the resolved profile root does not exist.
	ErrRootNotFound = errors.New("profile root not found")
	// ErrNoProfilesFound is returned when no directory under the root looks like a profile.
	ErrNoProfilesFound = errors.New("no profiles found")
	// ErrManifestMismatch is returned when profiles.ini disagrees with the profile directories.
	ErrManifestMismatch = errors.New("profiles.ini does not match profile directories")
)

// BrowserConfig defines browser-specific configuration
type BrowserConfig struct {
	Name string
	// Per-OS path segments below the user's home directory.
	WindowsPath []string
	MacOSPath   []string
	LinuxPath   []string
	// ProfilePattern selects usable profile directories (case-insensitive).
	ProfilePattern string
	// Manifest is the profile index kept in the root directory.
	Manifest string
	// DataStoreFile is the per-profile history database.
	DataStoreFile string
}

// FirefoxConfig returns the configuration for Mozilla Firefox.
func FirefoxConfig() BrowserConfig {
	return BrowserConfig{
		Name: "Firefox",
		WindowsPath: []string{
			"AppData", "Roaming", "Mozilla", "Firefox", "Profiles",
		},
		MacOSPath: []string{
			"Library", "Application Support", "Firefox", "Profiles",
		},
		LinuxPath: []string{
			".mozilla", "firefox",
		},
		ProfilePattern: "(?i)(safe|default)",
		Manifest:       "profiles.ini",
		DataStoreFile:  "places.sqlite",
	}
}

// SupportedBrowsers lists the browser names accepted by ConfigFor.
func SupportedBrowsers() []string {
	return []string{"firefox"}
}

// ConfigFor returns the configuration for the named browser.
func ConfigFor(name string) (BrowserConfig, error) {
	switch strings.ToLower(name) {
	case "firefox", "":
		return FirefoxConfig(), nil
	default:
		return BrowserConfig{}, fmt.Errorf("%w %q (supported: %s)", ErrUnknownBrowser, name, strings.Join(SupportedBrowsers(), ", "))
	}
}
