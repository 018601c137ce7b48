package rag

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/repoindex"
	"github.com/mwiater/repomind/internal/util"
)

var keywordSplit = regexp.MustCompile(`[^a-z0-9_]+`)

// ExtractKeywords lower-cases question and returns its tokens of 3 to 40
// characters in question order. Repeated words are kept, so each repeat adds
// to a path's score.
func ExtractKeywords(question string) []string {
	var keywords []string
	for _, tok := range keywordSplit.Split(strings.ToLower(question), -1) {
		if len(tok) < 3 || len(tok) > 40 {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

// ScorePath counts the keywords contained in the lower-cased path.
func ScorePath(path string, keywords []string) int {
	lower := strings.ToLower(path)
	score := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

type scoredEntry struct {
	entry repoindex.IndexEntry
	score int
}

// rankEntries returns the entries matching at least one keyword, best first
// and by path for equal scores.
func rankEntries(entries []repoindex.IndexEntry, keywords []string) []scoredEntry {
	if len(keywords) == 0 {
		return nil
	}
	var scored []scoredEntry
	for _, e := range entries {
		if s := ScorePath(e.Path, keywords); s > 0 {
			scored = append(scored, scoredEntry{entry: e, score: s})
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].entry.Path < scored[j].entry.Path
	})
	return scored
}

func retrieveLexical(question string, index *repoindex.RepositoryIndex, opts RetrieveOptions) Retrieval {
	ranked := rankEntries(index.Entries, ExtractKeywords(question))
	if len(ranked) > opts.MaxFiles {
		ranked = ranked[:opts.MaxFiles]
	}

	var snippets []Snippet
	for _, se := range ranked {
		text, err := repoindex.ReadFile(index.Root, se.entry.Path)
		if err != nil {
			logging.LogEvent("[RETRIEVE] skipping %s: %v", se.entry.Path, err)
			continue
		}
		snippets = append(snippets, Snippet{
			File:  se.entry.Path,
			Text:  util.TruncateRunes(text, opts.MaxCharsPerFile, util.TruncatedMarker),
			Score: float64(se.score),
		})
	}

	return Retrieval{
		Strategy:  StrategyLexical,
		Snippets:  snippets,
		UsedFiles: usedFiles(snippets),
	}
}
