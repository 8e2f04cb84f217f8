package knowledge_test

import (
	"os"
	"path/filepath"
	"testing"

	"wabot/internal/knowledge"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func loadBase(t *testing.T, knowledgeJSON, faqJSON string) *knowledge.Base {
	t.Helper()
	dir := t.TempDir()
	kPath := writeFile(t, dir, "knowledge.json", knowledgeJSON)
	fPath := writeFile(t, dir, "faq.json", faqJSON)
	base, err := knowledge.Load(kPath, fPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return base
}

func TestLoadMissingFilesTolerated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base, err := knowledge.Load(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nada.json"), nil)
	if err != nil {
		t.Fatalf("Load with missing files should not error, got: %v", err)
	}
	if _, ok := base.FindInfo("anything"); ok {
		t.Error("empty base should not match any keyword")
	}
	if got := base.Questions(); len(got) != 0 {
		t.Errorf("empty base should have no questions, got %v", got)
	}
}

func TestLoadInvalidJSONFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	kPath := writeFile(t, dir, "knowledge.json", "{not json")
	fPath := writeFile(t, dir, "faq.json", "[]")
	if _, err := knowledge.Load(kPath, fPath, nil); err == nil {
		t.Error("expected error for malformed knowledge file")
	}
}

func TestFindInfo(t *testing.T) {
	t.Parallel()

	base := loadBase(t,
		`[{"keyword":"harga","info":"Harga mulai dari 100rb."},{"keyword":"jam buka","info":"Buka 09.00-17.00."}]`,
		`[]`)

	testCases := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{
			name:     "keyword inside sentence",
			input:    "Berapa HARGA untuk edit video?",
			expected: "Harga mulai dari 100rb.",
			found:    true,
		},
		{
			name:     "multi word keyword",
			input:    "jam buka kapan ya",
			expected: "Buka 09.00-17.00.",
			found:    true,
		},
		{
			name:  "no match",
			input: "halo",
			found: false,
		},
		{
			name:     "first matching entry wins",
			input:    "harga dan jam buka",
			expected: "Harga mulai dari 100rb.",
			found:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := base.FindInfo(tc.input)
			if ok != tc.found {
				t.Fatalf("FindInfo(%q) found = %v, want %v", tc.input, ok, tc.found)
			}
			if ok && got != tc.expected {
				t.Errorf("FindInfo(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestFindAnswer(t *testing.T) {
	t.Parallel()

	base := loadBase(t,
		`[]`,
		`[{"question":"Apa saja layanan kalian?","answer":"Kami melayani editing video dan desain."},{"question":"berapa lama pengerjaan","answer":"Biasanya 3-5 hari kerja."}]`)

	testCases := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{
			name:     "exact match case insensitive",
			input:    "APA SAJA LAYANAN KALIAN?",
			expected: "Kami melayani editing video dan desain.",
			found:    true,
		},
		{
			name:     "substring match",
			input:    "halo kak, berapa lama pengerjaan biasanya?",
			expected: "Biasanya 3-5 hari kerja.",
			found:    true,
		},
		{
			name:  "no match",
			input: "mau pesan dong",
			found: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := base.FindAnswer(tc.input)
			if ok != tc.found {
				t.Fatalf("FindAnswer(%q) found = %v, want %v", tc.input, ok, tc.found)
			}
			if ok && got != tc.expected {
				t.Errorf("FindAnswer(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestQuestionsPreserveOrder(t *testing.T) {
	t.Parallel()

	base := loadBase(t, `[]`,
		`[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"},{"question":"Q3","answer":"A3"}]`)

	got := base.Questions()
	want := []string{"Q1", "Q2", "Q3"}
	if len(got) != len(want) {
		t.Fatalf("Questions() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Questions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
