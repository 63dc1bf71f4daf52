package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "Blue Monday", "Blue Monday"},
		{"control chars", "Blue\x00 Mon\x1bday", "Blue Monday"},
		{"keeps tab", "a\tb", "a\tb"},
		{"nbsp", "Blue\u00a0Monday", "Blue Monday"},
		{"invalid utf8", "Blue\xffMonday", "BlueMonday"},
		{"c1 control", "a\u0085b", "ab"},
		{"unicode kept", "Sigur Rós", "Sigur Rós"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Ceremony", 10, "Ceremony"},
		{"exact", "Ceremony", 8, "Ceremony"},
		{"cut", "Blue Monday", 6, "Blue …"},
		{"wide chars", "日本語の歌", 5, "日本…"},
		{"sanitized first", "Cere\x00mony", 8, "Ceremony"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateStyled(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("Blue Monday")

	got := TruncateStyled(styled, 6)

	if w := ansi.StringWidth(got); w != 6 {
		t.Errorf("width = %d, want 6", w)
	}
	if plain := ansi.Strip(got); plain != "Blue …" {
		t.Errorf("text = %q, want %q", plain, "Blue …")
	}
}

func TestTruncatePad(t *testing.T) {
	if got := TruncatePad("abc", 6); got != "abc   " {
		t.Errorf("TruncatePad() = %q, want padded", got)
	}
	if got := TruncatePad("abcdefgh", 5); got != "abcd…" {
		t.Errorf("TruncatePad() = %q, want truncated", got)
	}
}

func TestRow(t *testing.T) {
	if got := Row("left", "right", 15); got != "left      right" {
		t.Errorf("Row() = %q", got)
	}
	if got := Row("left", "right", 5); got != "left right" {
		t.Errorf("Row() = %q, want single space when too narrow", got)
	}
}

func TestGradient(t *testing.T) {
	if got := Gradient("", "#ff0000", "#0000ff"); got != "" {
		t.Errorf("Gradient(\"\") = %q, want empty", got)
	}

	got := Gradient("━━━━", "#ff0000", "#0000ff")
	if plain := ansi.Strip(got); plain != "━━━━" {
		t.Errorf("Gradient() text = %q", plain)
	}
	if strings.Count(ansi.Strip(got), "━") != 4 {
		t.Error("Gradient() lost characters")
	}
}

func TestBlend(t *testing.T) {
	colors := Blend(3, "#000000", "#ffffff")
	if len(colors) != 3 {
		t.Fatalf("len = %d, want 3", len(colors))
	}
	black, _ := colorful.Hex("#000000")
	white, _ := colorful.Hex("#ffffff")
	if d := colors[0].DistanceRgb(black); d > 0.01 {
		t.Errorf("first = %s, want black", colors[0].Hex())
	}
	if d := colors[2].DistanceRgb(white); d > 0.01 {
		t.Errorf("last = %s, want white", colors[2].Hex())
	}

	if got := Blend(1, "#42b883", "#ffffff"); len(got) != 1 || got[0].Hex() != "#42b883" {
		t.Errorf("Blend(1) = %v", got)
	}
	if got := Blend(2, "12", "#ffffff"); got[0].Hex() != "#808080" {
		t.Errorf("ANSI color = %s, want gray fallback", got[0].Hex())
	}
}
