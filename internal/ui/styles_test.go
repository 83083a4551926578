package ui

import (
	"strings"
	"testing"
)

func TestStylesRenderContent(t *testing.T) {
	for name, out := range map[string]string{
		"Title":        StyleTitle.Render("Test"),
		"Success":      StyleSuccess.Render("Test"),
		"Header":       StyleHeader.Render("Test"),
		"SectionTitle": StyleSectionTitle.Render("Test"),
	} {
		if !strings.Contains(out, "Test") {
			t.Errorf("%s style dropped its content: %q", name, out)
		}
	}
}

func TestIcon(t *testing.T) {
	out := Icon("✓", StyleSuccess)
	if !strings.Contains(out, "✓") {
		t.Errorf("Icon() = %q, expected to contain the icon", out)
	}
}
