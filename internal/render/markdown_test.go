package render

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<h1") {
		t.Errorf("output %q should contain an h1", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("output %q should contain bold text", out)
	}
}

func TestRender_GFMTable(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "<table") {
		t.Errorf("output %q should contain a table", out)
	}
}

func TestRender_StripsScripts(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("hello <script>alert('xss')</script> world")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "<script") {
		t.Errorf("output %q must not contain script tags", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("output %q should keep the surrounding text", out)
	}
}

func TestSanitizeText(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>no markup</b>", "no markup"},
		{`<a href="https://evil.example">link</a>`, "link"},
		{"<script>alert(1)</script>", ""},
	}

	for _, tt := range tests {
		if got := r.SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
