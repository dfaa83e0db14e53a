// Package report renders discovery details and ranked domains for a terminal
// or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"go-browser-topsites/internal/browsers"
	"go-browser-topsites/internal/topsites"
)

// Options controls rendering. Colour is decided here and never through the
// color package's global switch.
type Options struct {
	JSON    bool
	Color   bool
	Verbose bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Printer writes reports to an output stream.
type Printer struct {
	w    io.Writer
	opts Options

	bold    *color.Color
	label   *color.Color
	path    *color.Color
	profile *color.Color
	faint   *color.Color
	count   *color.Color
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:       w,
		opts:    opts,
		bold:    color.New(color.Bold),
		label:   color.New(color.FgGreen),
		path:    color.New(color.FgCyan),
		profile: color.New(color.FgYellow),
		faint:   color.New(color.FgHiBlack),
		count:   color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.bold, p.label, p.path, p.profile, p.faint, p.count} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

type jsonProfile struct {
	Profile  string          `json:"profile"`
	Database string          `json:"database"`
	Sites    []topsites.Site `json:"sites"`
}

type jsonOutput struct {
	Browser   string              `json:"browser"`
	Discovery *browsers.Discovery `json:"discovery,omitempty"`
	Profiles  []jsonProfile       `json:"profiles"`
	Total     int                 `json:"total"`
}

// Print writes the ranked sites of every profile in d. Discovery details
// are included when Verbose is set.
func (p *Printer) Print(browser string, d *browsers.Discovery, ranked map[string][]topsites.Site) error {
	profiles := slices.Sorted(maps.Keys(ranked))

	if p.opts.JSON {
		out := jsonOutput{
			Browser:  browser,
			Profiles: make([]jsonProfile, 0, len(profiles)),
			Total:    len(profiles),
		}
		if p.opts.Verbose {
			out.Discovery = d
		}
		for _, profile := range profiles {
			out.Profiles = append(out.Profiles, jsonProfile{
				Profile:  profile,
				Database: d.Databases[profile],
				Sites:    ranked[profile],
			})
		}
		jsonData, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshalling JSON: %w", err)
		}
		_, err = fmt.Fprintln(p.w, string(jsonData))
		return err
	}

	var b strings.Builder
	if p.opts.Verbose {
		p.writeInfo(&b, browser, d)
	}

	if len(profiles) == 0 {
		b.WriteString("No profile history found.\n")
	}
	for _, profile := range profiles {
		fmt.Fprintf(&b, "%s %s\n", p.profile.Sprint(profile), p.faint.Sprintf("(%s)", d.Databases[profile]))
		sites := ranked[profile]
		if len(sites) == 0 {
			fmt.Fprintf(&b, "   %s\n", p.faint.Sprint("no visited sites"))
		}
		for i, site := range sites {
			fmt.Fprintf(&b, "   %d. %-30s %s\n", i+1, site.Domain, p.count.Sprint(site.Count))
		}
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) writeInfo(b *strings.Builder, browser string, d *browsers.Discovery) {
	fmt.Fprintf(b, "%s %s\n", p.bold.Sprint("Browser:"), p.label.Sprint(browser))
	fmt.Fprintf(b, "%s %s\n", p.bold.Sprint("Root:"), p.path.Sprint(d.Root))
	fmt.Fprintf(b, "%s %s\n", p.bold.Sprint("Directories:"), p.list(d.Directories))
	fmt.Fprintf(b, "%s %s\n", p.bold.Sprint("Profiles:"), p.list(d.Profiles))
	fmt.Fprintf(b, "%s %s\n", p.bold.Sprint("Manifest:"), p.list(d.Manifest))
	for _, profile := range slices.Sorted(maps.Keys(d.Databases)) {
		fmt.Fprintf(b, "%s: %s\n", p.profile.Sprint(profile), p.path.Sprint(d.Databases[profile]))
	}
	b.WriteString("\n")
}

func (p *Printer) list(items []string) string {
	colored := make([]string, len(items))
	for i, item := range items {
		colored[i] = p.faint.Sprint(item)
	}
	return "[" + strings.Join(colored, ", ") + "]"
}
