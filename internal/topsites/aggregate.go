// Package topsites ranks the domains found in browser history by how often
// they occur.
package topsites

import (
	"net/url"
	"slices"
	"strings"
)

// DefaultTop is the number of domains kept per profile.
const DefaultTop = 5

// Site is a domain and the number of history entries counted for it.
type Site struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// Canonicalize returns the domain raw is counted under. URLs that do not
// parse, have no host or have an empty host label ("a..com") are rejected.
func Canonicalize(raw string, canon Canonicalizer) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" || slices.Contains(strings.Split(host, "."), "") {
		return "", false
	}
	return canon.Domain(host), true
}

// RankDomains returns the top n domains for every profile. Domains with equal
// counts keep the order in which they were first seen. n <= 0 means DefaultTop.
func RankDomains(profileURLs map[string][]string, canon Canonicalizer, n int) map[string][]Site {
	ranked := make(map[string][]Site, len(profileURLs))
	for profile, urls := range profileURLs {
		ranked[profile] = Rank(urls, canon, n)
	}
	return ranked
}

// Rank tallies a single profile's URLs and returns its top n domains.
func Rank(urls []string, canon Canonicalizer, n int) []Site {
	if n <= 0 {
		n = DefaultTop
	}

	index := make(map[string]int)
	sites := []Site{}
	for _, raw := range urls {
		domain, ok := Canonicalize(raw, canon)
		if !ok {
			continue
		}
		if i, seen := index[domain]; seen {
			sites[i].Count++
			continue
		}
		index[domain] = len(sites)
		sites = append(sites, Site{Domain: domain, Count: 1})
	}

	slices.SortStableFunc(sites, func(a, b Site) int {
		return b.Count - a.Count
	})
	if len(sites) > n {
		sites = sites[:n]
	}
	return sites
}
