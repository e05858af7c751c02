package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Lllllllleong/lecturesummary/internal/models"
)

const (
	fallbackHighLevelSource = 600
	fallbackHighLevelMax    = 1200
	fallbackMaxSections     = 3
	fallbackMaxBullets      = 4
	fallbackCorpusMin       = 50
	fallbackCorpusSource    = 4000
	fallbackMaxTerms        = 12
	fallbackHighTerms       = 4
	fallbackDefinitionMax   = 160

	// QuestionCount is the number of items every questions result targets.
	QuestionCount = 10

	noSummaryText       = "No summary available."
	placeholderTerm     = "Key concept"
	placeholderDef      = "Core concept of the lecture."
	genericDefinition   = "A key term in the context of this lecture."
	genericAnswer       = "Describe the core definition."
	fallbackRationale   = "Based on the lecture summary and glossary."
	fallbackStemPattern = "Explain the following term: %s"
)

var termTokenRe = regexp.MustCompile(`[a-zA-Z가-힣]{2,}`)

var stopWords = map[string]struct{}{
	"그리고": {}, "그러나": {}, "또는": {}, "이다": {}, "있는": {}, "하는": {}, "에서": {}, "으로": {},
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
}

// FallbackSummary builds a summary from the raw text alone. The first
// paragraph becomes the high-level text and the next three become sections.
func FallbackSummary(fullText string) models.Summary {
	paras := paragraphs(fullText)

	high := truncateRunes(fullText, fallbackHighLevelSource)
	if len(paras) > 0 {
		high = paras[0]
	}
	if high == "" {
		high = noSummaryText
	}

	sections := []models.Section{}
	for i := 1; i < len(paras) && i <= fallbackMaxSections; i++ {
		bullets := splitBullets(paras[i])
		if len(bullets) > fallbackMaxBullets {
			bullets = bullets[:fallbackMaxBullets]
		}
		sections = append(sections, models.Section{
			Title:   fmt.Sprintf("Section %d", i),
			Bullets: bullets,
		})
	}

	return models.Summary{
		HighLevel: truncateRunes(high, fallbackHighLevelMax),
		Sections:  sections,
	}
}

// FallbackGlossary picks the first distinct non-stop-word tokens of the
// summary (or of the raw text when the summary is too short) and defines
// each by the first raw-text sentence that mentions it. It never returns an
// empty list.
func FallbackGlossary(fullText string, summary models.Summary) []models.GlossaryEntry {
	parts := []string{summary.HighLevel}
	for _, sec := range summary.Sections {
		parts = append(parts, sec.Bullets...)
	}
	corpus := strings.ToLower(strings.Join(parts, " "))
	if len([]rune(corpus)) < fallbackCorpusMin {
		corpus = strings.ToLower(truncateRunes(fullText, fallbackCorpusSource))
	}

	var terms []string
	seen := make(map[string]struct{})
	for _, tok := range termTokenRe.FindAllString(corpus, -1) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
		if len(terms) >= fallbackMaxTerms {
			break
		}
	}

	sentences := splitSentences(fullText)
	out := make([]models.GlossaryEntry, 0, len(terms))
	for i, term := range terms {
		definition := genericDefinition
		for _, s := range sentences {
			if strings.Contains(strings.ToLower(s), term) {
				if d := truncateRunes(s, fallbackDefinitionMax); d != "" {
					definition = d
				}
				break
			}
		}
		importance := models.ImportanceMedium
		if i < fallbackHighTerms {
			importance = models.ImportanceHigh
		}
		out = append(out, models.GlossaryEntry{Term: term, Definition: definition, Importance: importance})
	}

	if len(out) == 0 {
		out = append(out, models.GlossaryEntry{
			Term:       placeholderTerm,
			Definition: placeholderDef,
			Importance: models.ImportanceMedium,
		})
	}
	return out
}

// FallbackQuestions synthesises exactly QuestionCount short-answer items by
// cycling through glossary terms, then section titles, then a placeholder.
// Difficulty escalates with the item index; exam mode skips the easy tier.
func FallbackQuestions(summary models.Summary, glossary []models.GlossaryEntry, purpose string) []models.QuestionItem {
	var pool []string
	for _, g := range glossary {
		if g.Term != "" {
			pool = append(pool, g.Term)
		}
	}
	if len(pool) == 0 {
		for _, sec := range summary.Sections {
			title := sec.Title
			if title == "" {
				title = placeholderTerm
			}
			pool = append(pool, title)
		}
	}
	if len(pool) == 0 {
		pool = []string{placeholderTerm}
	}

	items := make([]models.QuestionItem, 0, QuestionCount)
	for n := 0; n < QuestionCount; n++ {
		term := pool[n%len(pool)]
		items = append(items, models.QuestionItem{
			Type:       models.QuestionShort,
			Stem:       fmt.Sprintf(fallbackStemPattern, term),
			Answer:     definitionOf(glossary, term),
			Rationale:  fallbackRationale,
			Difficulty: fallbackDifficulty(n, purpose),
		})
	}
	return items
}

func definitionOf(glossary []models.GlossaryEntry, term string) string {
	for _, g := range glossary {
		if g.Term == term && g.Definition != "" {
			return g.Definition
		}
	}
	return genericAnswer
}

func fallbackDifficulty(n int, purpose string) string {
	switch {
	case purpose != models.PurposeExam && n < 4:
		return models.DifficultyEasy
	case n < QuestionCount-1:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}
