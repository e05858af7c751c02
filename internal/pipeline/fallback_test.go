package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/lecturesummary/internal/models"
)

func TestFallbackSummary_TwoParagraphs(t *testing.T) {
	s := FallbackSummary("Intro to X.\n\n- point A\n- point B")

	assert.Equal(t, "Intro to X.", s.HighLevel)
	require.Len(t, s.Sections, 1)
	assert.Equal(t, "Section 1", s.Sections[0].Title)
	assert.Equal(t, []string{"point A", "point B"}, s.Sections[0].Bullets)
}

func TestFallbackSummary_Limits(t *testing.T) {
	paras := []string{
		strings.Repeat("h", 1500),
		"One. Two. Three. Four. Five.",
		"B1.",
		"C1.",
		"D1 is dropped.",
	}
	s := FallbackSummary(strings.Join(paras, "\n\n"))

	assert.Len(t, []rune(s.HighLevel), 1200)
	require.Len(t, s.Sections, 3)
	assert.Equal(t, []string{"One.", "Two.", "Three.", "Four."}, s.Sections[0].Bullets)
	assert.Equal(t, "Section 3", s.Sections[2].Title)
	assert.Equal(t, []string{"C1."}, s.Sections[2].Bullets)
}

func TestFallbackSummary_EmptyText(t *testing.T) {
	s := FallbackSummary("")
	assert.Equal(t, noSummaryText, s.HighLevel)
	assert.NotNil(t, s.Sections)
	assert.Empty(t, s.Sections)
}

func TestFallbackGlossary(t *testing.T) {
	text := "Photosynthesis converts light energy. Chlorophyll absorbs light. The plant stores glucose."
	glossary := FallbackGlossary(text, FallbackSummary(text))

	terms := make([]string, 0, len(glossary))
	for _, g := range glossary {
		terms = append(terms, g.Term)
	}
	assert.Equal(t, []string{
		"photosynthesis", "converts", "light", "energy", "chlorophyll",
		"absorbs", "plant", "stores", "glucose",
	}, terms)

	assert.Equal(t, "Photosynthesis converts light energy.", glossary[0].Definition)
	assert.Equal(t, "The plant stores glucose.", glossary[6].Definition)
	for i, g := range glossary {
		if i < 4 {
			assert.Equal(t, models.ImportanceHigh, g.Importance, g.Term)
		} else {
			assert.Equal(t, models.ImportanceMedium, g.Importance, g.Term)
		}
	}
}

func TestFallbackGlossary_CapsAtTwelveAndSkipsStopWords(t *testing.T) {
	words := []string{"the", "and", "alpha", "beta", "gamma", "delta", "epsilon", "zeta",
		"theta", "iota", "kappa", "lambda", "omicron", "sigma", "omega", "alpha"}
	text := strings.Join(words, " ")
	glossary := FallbackGlossary(text, models.Summary{})

	require.Len(t, glossary, 12)
	assert.Equal(t, "alpha", glossary[0].Term)
	assert.Equal(t, "sigma", glossary[11].Term)
}

func TestFallbackGlossary_HangulTokens(t *testing.T) {
	text := "자료구조는 데이터를 저장한다. 그리고 스택은 후입선출 구조이다."
	glossary := FallbackGlossary(text, models.Summary{})

	require.NotEmpty(t, glossary)
	assert.Equal(t, "자료구조는", glossary[0].Term)
	for _, g := range glossary {
		assert.NotEqual(t, "그리고", g.Term)
	}
}

func TestFallbackGlossary_EmptyInput(t *testing.T) {
	glossary := FallbackGlossary("", models.Summary{})
	require.Len(t, glossary, 1)
	assert.Equal(t, placeholderTerm, glossary[0].Term)
	assert.NotEmpty(t, glossary[0].Definition)
}

func countDifficulty(items []models.QuestionItem, d string) int {
	n := 0
	for _, q := range items {
		if q.Difficulty == d {
			n++
		}
	}
	return n
}

func TestFallbackQuestions_AlwaysTen(t *testing.T) {
	cases := map[string][]models.GlossaryEntry{
		"nil glossary": nil,
		"one term":     {{Term: "cache", Definition: "fast storage"}},
		"many terms":   FallbackGlossary("alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu nu", models.Summary{}),
		"empty terms":  {{Term: ""}, {Term: ""}},
	}
	for name, glossary := range cases {
		t.Run(name, func(t *testing.T) {
			items := FallbackQuestions(models.Summary{}, glossary, models.PurposeUnderstanding)
			require.Len(t, items, QuestionCount)
			assert.Equal(t, 4, countDifficulty(items, models.DifficultyEasy))
			assert.Equal(t, 5, countDifficulty(items, models.DifficultyMedium))
			assert.Equal(t, 1, countDifficulty(items, models.DifficultyHard))
			for _, q := range items {
				assert.Equal(t, models.QuestionShort, q.Type)
				assert.NotEmpty(t, q.Stem)
				assert.NotEmpty(t, q.Answer)
				assert.Empty(t, q.Choices)
			}
		})
	}
}

func TestFallbackQuestions_ExamSkipsEasy(t *testing.T) {
	items := FallbackQuestions(models.Summary{}, nil, models.PurposeExam)
	require.Len(t, items, QuestionCount)
	assert.Equal(t, 0, countDifficulty(items, models.DifficultyEasy))
	assert.Equal(t, 9, countDifficulty(items, models.DifficultyMedium))
	assert.Equal(t, models.DifficultyHard, items[9].Difficulty)
}

func TestFallbackQuestions_TermPool(t *testing.T) {
	glossary := []models.GlossaryEntry{
		{Term: "cache", Definition: "fast storage"},
		{Term: "queue"},
	}
	items := FallbackQuestions(models.Summary{}, glossary, models.PurposeUnderstanding)
	assert.Equal(t, "Explain the following term: cache", items[0].Stem)
	assert.Equal(t, "fast storage", items[0].Answer)
	assert.Equal(t, "Explain the following term: queue", items[1].Stem)
	assert.Equal(t, genericAnswer, items[1].Answer)
	assert.Equal(t, items[0].Stem, items[2].Stem)

	summary := models.Summary{Sections: []models.Section{{Title: "Sorting"}, {Title: ""}}}
	items = FallbackQuestions(summary, nil, models.PurposeUnderstanding)
	assert.Equal(t, "Explain the following term: Sorting", items[0].Stem)
	assert.Equal(t, "Explain the following term: "+placeholderTerm, items[1].Stem)
}
