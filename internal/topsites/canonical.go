package topsites

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const (
	// StrategyHeuristic selects the Heuristic canonicalizer.
	StrategyHeuristic = "heuristic"
	// StrategyPublicSuffix selects the PublicSuffix canonicalizer.
	StrategyPublicSuffix = "publicsuffix"
)

// Canonicalizer reduces a lower-cased hostname to the domain its visits are
// counted under.
type Canonicalizer interface {
	Domain(host string) string
}

// Heuristic keeps the last two labels of a host, or the last three when the
// second-to-last label is "co" (example.co.uk). It is not a public suffix
// list lookup: "example.com.au" collapses to "com.au".
type Heuristic struct{}

// Domain returns the last two or three labels of host.
func (Heuristic) Domain(host string) string {
	labels := strings.Split(host, ".")
	keep := 2
	if len(labels) >= 2 && labels[len(labels)-2] == "co" {
		keep = 3
	}
	if len(labels) <= keep {
		return host
	}
	return strings.Join(labels[len(labels)-keep:], ".")
}

// PublicSuffix uses the public suffix list to find the registrable domain
// (eTLD+1). IP literals and hosts that are themselves public suffixes are
// returned unchanged.
type PublicSuffix struct{}

// Domain returns the eTLD+1 of host, or host itself when none exists.
func (PublicSuffix) Domain(host string) string {
	if net.ParseIP(host) != nil {
		return host
	}
	etld, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld
}

// StrategyByName returns the Canonicalizer registered under name.
func StrategyByName(name string) (Canonicalizer, error) {
	switch strings.ToLower(name) {
	case StrategyHeuristic, "":
		return Heuristic{}, nil
	case StrategyPublicSuffix:
		return PublicSuffix{}, nil
	default:
		return nil, fmt.Errorf("unknown domain strategy %q (supported: %s, %s)", name, StrategyHeuristic, StrategyPublicSuffix)
	}
}
