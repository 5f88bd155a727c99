package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"Café au Lait", "cafe-au-lait"},
		{"Über Größe", "uber-grosse"},
		{"already-a-slug", "already-a-slug"},
		{"UPPERCASE", "uppercase"},
		{"100% Pure Go", "100-pure-go"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "hello-world", "post-123", "2026"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "Hello", "has space", "-leading", "trailing-", "double--hyphen", "ümlaut"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
