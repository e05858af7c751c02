package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Lllllllleong/lecturesummary/internal/models"
)

var errNoItems = errors.New("no decodable items")

// requireKeys accepts v only if it is an object holding every key.
func requireKeys(v any, keys ...string) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return nil, fmt.Errorf("missing key %q", k)
		}
	}
	return obj, nil
}

// requireList accepts v only if it is a non-empty array.
func requireList(v any) ([]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON array, got %T", v)
	}
	if len(list) == 0 {
		return nil, errors.New("empty JSON array")
	}
	return list, nil
}

// remarshal converts a generic JSON value into a typed one.
func remarshal(in any, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func decodeSummary(v any) (models.Summary, error) {
	obj, err := requireKeys(v, "high_level", "sections")
	if err != nil {
		return models.Summary{}, err
	}
	var s models.Summary
	if err := remarshal(obj, &s); err != nil {
		return models.Summary{}, fmt.Errorf("decode summary: %w", err)
	}
	if s.Sections == nil {
		s.Sections = []models.Section{}
	}
	return s, nil
}

// decodeGlossary keeps every element that decodes to an entry with a term.
func decodeGlossary(v any) ([]models.GlossaryEntry, error) {
	list, err := requireList(v)
	if err != nil {
		return nil, err
	}
	out := make([]models.GlossaryEntry, 0, len(list))
	for _, item := range list {
		var g models.GlossaryEntry
		if remarshal(item, &g) != nil || strings.TrimSpace(g.Term) == "" {
			continue
		}
		out = append(out, g)
	}
	if len(out) == 0 {
		return nil, errNoItems
	}
	return out, nil
}

// decodeQuestions keeps every element that decodes to an item with a stem.
func decodeQuestions(v any) ([]models.QuestionItem, error) {
	list, err := requireList(v)
	if err != nil {
		return nil, err
	}
	out := make([]models.QuestionItem, 0, len(list))
	for _, item := range list {
		var q models.QuestionItem
		if remarshal(item, &q) != nil || strings.TrimSpace(q.Stem) == "" {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, errNoItems
	}
	return out, nil
}
