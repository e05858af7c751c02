package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Lllllllleong/lecturesummary/internal/models"
)

var (
	paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)
	lineDashRe       = regexp.MustCompile(`(?m)^[ \t]*-`)
)

// chunkRunes splits s into consecutive pieces of at most size runes.
func chunkRunes(s string, size int) []string {
	if s == "" || size <= 0 {
		return nil
	}
	runes := []rune(s)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// paragraphs splits text on blank lines and drops empty pieces.
func paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreakRe.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences cuts s after '.', '!' or '?' when followed by whitespace.
// The whitespace run is dropped; pieces are returned untrimmed otherwise.
func splitSentences(s string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) || len(out) == 0 {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitBullets breaks a paragraph into bullet items. '•' always starts a new
// item, '-' only at the start of a line, and sentence boundaries split too.
func splitBullets(p string) []string {
	p = lineDashRe.ReplaceAllString(p, "•")
	var out []string
	for _, piece := range strings.Split(p, "•") {
		for _, s := range splitSentences(piece) {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// summaryContext renders a summary as grounding text for later stages.
func summaryContext(s models.Summary) string {
	var b strings.Builder
	b.WriteString(s.HighLevel)
	b.WriteString("\n")
	for i, sec := range s.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[" + sec.Title + "]\n")
		b.WriteString(strings.Join(sec.Bullets, "\n"))
	}
	return b.String()
}
