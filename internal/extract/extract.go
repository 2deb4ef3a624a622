// Package extract proposes map components and relationships from prose.
//
// It is a heuristic front end for the analysis engine: relationship phrases
// such as "X depends on Y" name the components, and keywords found in the
// sentences mentioning a component decide where it sits on the map.
package extract

import (
	"regexp"
	"strings"

	"github.com/wardleyscope/core/internal/models"
)

type pattern struct {
	kind models.RelationshipType
	re   *regexp.Regexp
}

var relationshipPatterns = []pattern{
	{models.DependsOn, regexp.MustCompile(`(\w+)\s+(?:depends on|requires|needs|uses|relies on|based on)\s+(\w+)`)},
	{models.DependsOn, regexp.MustCompile(`(\w+)\s+(?:is dependent on|is reliant on)\s+(\w+)`)},
	{models.DependsOn, regexp.MustCompile(`without\s+(\w+),\s+(\w+)\s+cannot`)},
	{models.Provides, regexp.MustCompile(`(\w+)\s+(?:provides|supports|enables|serves|helps)\s+(\w+)`)},
	{models.Provides, regexp.MustCompile(`(\w+)\s+(?:is provided by|is supported by|is enabled by)\s+(\w+)`)},
	{models.Provides, regexp.MustCompile(`(\w+)\s+(?:enhances|improves|optimizes)\s+(\w+)`)},
	{models.ConsistsOf, regexp.MustCompile(`(\w+)\s+(?:consists of|contains|includes|comprises)\s+(\w+)`)},
	{models.ConsistsOf, regexp.MustCompile(`(\w+)\s+(?:is part of|belongs to)\s+(\w+)`)},
}

var sentenceEnd = regexp.MustCompile(`[.!?]+(?:\s+|$)|\n{2,}`)

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "it": true, "its": true, "this": true,
	"that": true, "these": true, "those": true, "which": true, "who": true,
	"what": true, "they": true, "them": true, "we": true, "us": true,
	"he": true, "she": true, "i": true, "you": true, "and": true, "or": true,
	"also": true, "all": true, "each": true, "every": true, "one": true,
	"something": true, "everything": true, "is": true, "be": true,
}

type keywordScore struct {
	score    float64
	keywords []string
}

var evolutionKeywords = []keywordScore{
	{0.1, []string{"new", "novel", "innovative", "emerging", "undefined", "experimental", "research"}},
	{0.4, []string{"custom", "built", "specific", "tailored", "specialized", "bespoke"}},
	{0.7, []string{"product", "standardized", "mature", "established", "stable"}},
	{0.9, []string{"commodity", "utility", "standard", "common", "generic", "widespread"}},
}

var valueKeywords = []keywordScore{
	{0.9, []string{"critical", "essential", "core", "key", "vital", "strategic", "crucial"}},
	{0.5, []string{"important", "necessary", "needed", "useful", "valuable"}},
	{0.2, []string{"supporting", "auxiliary", "optional", "supplementary", "peripheral"}},
}

var maturityIndicators = []keywordScore{
	{0.1, []string{"new"}},
	{0.3, []string{"developing"}},
	{0.6, []string{"stable"}},
	{0.8, []string{"mature"}},
	{0.9, []string{"legacy"}},
}

const neutralScore = 0.5

// Extract returns the components and relationships found in text. The
// result is never nil; text without any recognised relationship phrase
// yields empty lists.
func Extract(text string) *models.Extraction {
	lower := strings.ToLower(text)
	sentences := splitSentences(text)

	var names []string
	known := make(map[string]bool)
	seen := make(map[string]bool)
	relationships := []models.Relationship{}

	for _, p := range relationshipPatterns {
		for _, m := range p.re.FindAllStringSubmatch(lower, -1) {
			source, target := m[1], m[2]
			if stopWords[source] || stopWords[target] || source == target {
				continue
			}

			for _, name := range []string{source, target} {
				if !known[name] {
					known[name] = true
					names = append(names, name)
				}
			}

			rel := models.Relationship{Source: componentID(source), Target: componentID(target), Type: p.kind}
			if seen[rel.Key()] {
				continue
			}
			seen[rel.Key()] = true
			relationships = append(relationships, rel)
		}
	}

	components := make([]models.Component, 0, len(names))
	for _, name := range names {
		contexts := mentions(name, sentences)
		evolution := averageScore(contexts, evolutionKeywords)
		maturity := averageScore(contexts, maturityIndicators)

		components = append(components, models.Component{
			ID:          componentID(name),
			Name:        name,
			X:           (evolution + maturity) / 2,
			Y:           averageScore(contexts, valueKeywords),
			Description: describe(name, contexts),
		})
	}

	return &models.Extraction{
		Components:    components,
		Relationships: relationships,
		Description:   text,
	}
}

func componentID(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func mentions(name string, sentences []string) []string {
	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)

	var out []string
	for _, s := range sentences {
		if word.MatchString(strings.ToLower(s)) {
			out = append(out, s)
		}
	}
	return out
}

// averageScore adds one score per context for every keyword group found in
// it and averages them, falling back to the neutral midpoint.
func averageScore(contexts []string, groups []keywordScore) float64 {
	var sum float64
	var count int

	for _, ctx := range contexts {
		ctx = strings.ToLower(ctx)
		for _, g := range groups {
			for _, kw := range g.keywords {
				if strings.Contains(ctx, kw) {
					sum += g.score
					count++
					break
				}
			}
		}
	}

	if count == 0 {
		return neutralScore
	}
	return sum / float64(count)
}

func describe(name string, contexts []string) string {
	best := ""
	for _, ctx := range contexts {
		if len(ctx) > len(best) {
			best = ctx
		}
	}
	return name + ": " + best
}
