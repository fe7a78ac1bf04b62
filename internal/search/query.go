package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/rcpilot/rcpilot/internal/catalog"
)

// Match is one catalog hit for a query: the option plus where it lives.
// Matches are ephemeral; they are recomputed per keystroke after the
// debounce window and never stored.
type Match struct {
	Service  string
	Category string
	Option   catalog.OptionDescriptor
	Score    int
}

// Key returns the composite control key of the matched option.
func (m Match) Key() string {
	return catalog.Key(m.Service, m.Category, m.Option.Name)
}

// QueryCatalog finds every option whose name, save key, help text, service
// or category contains the query, ignoring case. Hits are ranked by fuzzy
// score against the option name so the closest names float to the top.
func QueryCatalog(g catalog.Grouped, query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)

	var matches []Match
	for service, categories := range g {
		for category, descriptors := range categories {
			for _, d := range descriptors {
				if !descriptorMatches(service, category, d, needle) {
					continue
				}
				matches = append(matches, Match{
					Service:  service,
					Category: category,
					Option:   d,
					Score:    nameScore(query, d.Name),
				})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Option.Name < matches[j].Option.Name
	})
	return matches
}

// CategoryCounts aggregates matches into per-service, per-category hit
// counts. The home page uses these to auto-expand groups that contain hits.
func CategoryCounts(matches []Match) map[string]map[string]int {
	counts := make(map[string]map[string]int)
	for _, m := range matches {
		if counts[m.Service] == nil {
			counts[m.Service] = make(map[string]int)
		}
		counts[m.Service][m.Category]++
	}
	return counts
}

// FilterPage narrows one page's option list to those matching the query.
// An empty query returns the list unchanged.
func FilterPage(descriptors []catalog.OptionDescriptor, query string) []catalog.OptionDescriptor {
	query = strings.TrimSpace(query)
	if query == "" {
		return descriptors
	}
	needle := strings.ToLower(query)

	var out []catalog.OptionDescriptor
	for _, d := range descriptors {
		if containsFold(d.Name, needle) ||
			containsFold(d.FieldName, needle) ||
			containsFold(d.Help, needle) {
			out = append(out, d)
		}
	}
	return out
}

func descriptorMatches(service, category string, d catalog.OptionDescriptor, needle string) bool {
	return containsFold(d.Name, needle) ||
		containsFold(d.FieldName, needle) ||
		containsFold(d.Help, needle) ||
		containsFold(service, needle) ||
		containsFold(category, needle)
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

func nameScore(query, name string) int {
	results := fuzzy.Find(query, []string{name})
	if len(results) == 0 {
		return 0
	}
	return results[0].Score
}
