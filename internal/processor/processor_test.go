package processor

import (
	"strings"
	"testing"
)

func TestProcessor_Convert(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		contains []string // Expected substrings in output
	}{
		{
			name:     "paragraphs",
			html:     `<div class="no-overflow"><p>Write 500 words.</p><p>Cite sources.</p></div>`,
			contains: []string{"Write 500 words.", "Cite sources."},
		},
		{
			name:     "links",
			html:     `<p>See <a href="https://lms.example.com/mod/resource/view.php?id=3">the rubric</a>.</p>`,
			contains: []string{"[the rubric](https://lms.example.com/mod/resource/view.php?id=3)"},
		},
		{
			name:     "emphasis",
			html:     `<p>Submit as <strong>PDF</strong> only.</p>`,
			contains: []string{"**PDF**"},
		},
		{
			name:     "lists",
			html:     `<ul><li>Introduction</li><li>Method</li></ul>`,
			contains: []string{"Introduction", "Method"},
		},
	}

	p := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Convert(tt.html)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, result)
				}
			}
			if result != strings.TrimSpace(result) {
				t.Errorf("output should be trimmed, got %q", result)
			}
		})
	}
}

func TestProcessor_Convert_EmptyInput(t *testing.T) {
	p := New()

	for _, in := range []string{"", "   \n\t"} {
		result, err := p.Convert(in)
		if err != nil {
			t.Fatalf("Convert(%q) error = %v", in, err)
		}
		if result != "" {
			t.Errorf("Convert(%q) = %q, want empty", in, result)
		}
	}
}
