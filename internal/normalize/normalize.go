// Package normalize reduces raw GitHub payloads into the minimal shapes
// the prompts need: language histograms, top-N tallies, and repo summaries.
// Everything here is a pure function over its inputs.
package normalize

import (
	"fmt"
	"math"
	"time"
)

const topLanguageCount = 5

// LanguageShare is one language's slice of a user's repositories.
type LanguageShare struct {
	Language   string `json:"language"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// LanguageStats is the derived language histogram for a user.
// TotalRepos counts only repos with a known language; repos without one are
// excluded from both the mapping and the percentage denominator.
type LanguageStats struct {
	TotalRepos   int             `json:"totalRepos"`
	Languages    map[string]int  `json:"languages"`
	TopLanguages []LanguageShare `json:"topLanguages"`
}

// Entry is a key with its occurrence count.
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TallyLanguages builds LanguageStats from the language column of a repo
// listing. Empty strings mark repos without a detected language and are
// skipped. TopLanguages is sorted descending by count, ties keeping
// first-seen order, truncated to the top five.
func TallyLanguages(languages []string) LanguageStats {
	counts := make(map[string]int)
	var order []string
	for _, lang := range languages {
		if lang == "" {
			continue
		}
		if _, seen := counts[lang]; !seen {
			order = append(order, lang)
		}
		counts[lang]++
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	stats := LanguageStats{
		TotalRepos: total,
		Languages:  counts,
	}
	for _, e := range TopN(order, counts, topLanguageCount) {
		stats.TopLanguages = append(stats.TopLanguages, LanguageShare{
			Language:   e.Key,
			Count:      e.Count,
			Percentage: int(math.Round(float64(e.Count) / float64(total) * 100)),
		})
	}
	return stats
}

// TopN returns the n highest-count keys as entries, descending by count.
// Keys with equal counts keep their order in keys, which callers populate
// in first-seen order. The sort is insertion-based to stay stable without
// a secondary comparison key.
func TopN(keys []string, counts map[string]int, n int) []Entry {
	var sorted []Entry
	for _, k := range keys {
		e := Entry{Key: k, Count: counts[k]}
		pos := len(sorted)
		for pos > 0 && sorted[pos-1].Count < e.Count {
			pos--
		}
		sorted = append(sorted, Entry{})
		copy(sorted[pos+1:], sorted[pos:])
		sorted[pos] = e
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RepoInfo is the minimal repo projection SummarizeRepoStats works on.
type RepoInfo struct {
	Language  string
	Stars     int
	Forks     int
	UpdatedAt time.Time
}

// RepoSummary aggregates a repo listing for the insight cards.
type RepoSummary struct {
	TotalStars   int
	TotalForks   int
	TopLanguages []string
	RecentCount  int
}

// SummarizeRepoStats totals stars and forks, formats the top three
// languages, and counts repos updated within 30 days of now. Repos without
// a language are tallied under "Unknown", matching what the insight prompt
// expects.
func SummarizeRepoStats(repos []RepoInfo, now time.Time) RepoSummary {
	var sum RepoSummary
	counts := make(map[string]int)
	var order []string
	for _, r := range repos {
		sum.TotalStars += r.Stars
		sum.TotalForks += r.Forks

		lang := r.Language
		if lang == "" {
			lang = "Unknown"
		}
		if _, seen := counts[lang]; !seen {
			order = append(order, lang)
		}
		counts[lang]++

		if now.Sub(r.UpdatedAt) <= 30*24*time.Hour {
			sum.RecentCount++
		}
	}
	for _, e := range TopN(order, counts, 3) {
		plural := ""
		if e.Count > 1 {
			plural = "s"
		}
		sum.TopLanguages = append(sum.TopLanguages, fmt.Sprintf("%s (%d repo%s)", e.Key, e.Count, plural))
	}
	return sum
}
