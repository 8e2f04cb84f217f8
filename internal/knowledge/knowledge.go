// Package knowledge loads the two static lookup tables used by the router:
// keyword-triggered grounding passages and FAQ question/answer pairs. Both
// are read once at startup and are read-only thereafter.
package knowledge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Entry is a keyword-triggered grounding passage for generative answers.
type Entry struct {
	Keyword string `json:"keyword"`
	Info    string `json:"info"`
}

// FAQ is a question with a canned answer that bypasses the generative backend.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Base holds the loaded reference tables.
type Base struct {
	entries []Entry
	faqs    []FAQ
	logger  *slog.Logger
}

// Load reads the knowledge and FAQ tables from the given JSON files.
// A missing file is tolerated with a warning and an empty table; a file
// that exists but cannot be parsed is an error.
func Load(knowledgePath, faqPath string, logger *slog.Logger) (*Base, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "knowledge")

	b := &Base{logger: log}

	if err := loadJSON(knowledgePath, &b.entries, log); err != nil {
		return nil, fmt.Errorf("failed to load knowledge table: %w", err)
	}
	if err := loadJSON(faqPath, &b.faqs, log); err != nil {
		return nil, fmt.Errorf("failed to load FAQ table: %w", err)
	}

	log.Info("Reference tables loaded", "knowledge_entries", len(b.entries), "faq_entries", len(b.faqs))
	return b, nil
}

func loadJSON(path string, dst any, log *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Reference file not found, using empty table", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// FindInfo returns the grounding passage whose keyword occurs in the
// lowercased text, or false if no keyword matches.
func (b *Base) FindInfo(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, e := range b.entries {
		if e.Keyword == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(e.Keyword)) {
			return e.Info, true
		}
	}
	return "", false
}

// FindAnswer returns the canned answer for a FAQ whose question equals or
// occurs in the lowercased text, or false if none matches.
func (b *Base) FindAnswer(text string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, f := range b.faqs {
		q := strings.ToLower(strings.TrimSpace(f.Question))
		if q == "" {
			continue
		}
		if lower == q || strings.Contains(lower, q) {
			return f.Answer, true
		}
	}
	return "", false
}

// Questions returns the FAQ question list in table order, used by the
// welcome message.
func (b *Base) Questions() []string {
	questions := make([]string, 0, len(b.faqs))
	for _, f := range b.faqs {
		questions = append(questions, f.Question)
	}
	return questions
}
