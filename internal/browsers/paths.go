package browsers

import (
	"fmt"
	"os/user"
	"strings"
)

// ResolveRoot returns the Firefox profile root for the given platform and user.
func ResolveRoot(goos, username string) (string, error) {
	return FirefoxConfig().ResolveRoot(goos, username)
}

// ResolveRoot computes the profile root for goos and username. The path is
// built with the target platform's separator rather than the host's, so the
// result does not depend on where it is computed.
func (c BrowserConfig) ResolveRoot(goos, username string) (string, error) {
	switch goos {
	case "windows":
		segments := append([]string{`C:`, "Users", username}, c.WindowsPath...)
		return strings.Join(segments, `\`), nil
	case "darwin": // macOS
		segments := append([]string{"", "Users", username}, c.MacOSPath...)
		return strings.Join(segments, "/"), nil
	case "linux":
		segments := append([]string{"", "home", username}, c.LinuxPath...)
		return strings.Join(segments, "/"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, goos)
	}
}

// CurrentUsername returns the login name of the running user without any
// Windows domain prefix.
func CurrentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	name := u.Username
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	return name, nil
}
