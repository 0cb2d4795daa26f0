package web

import (
	"bytes"
	"strings"
	"testing"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates failed: %v", err)
	}
	for _, name := range []string{"install", "error", "home"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("Expected template %q", name)
		}
	}
}

func TestErrorTemplateEscapesMessage(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("Templates failed: %v", err)
	}

	var buf bytes.Buffer
	data := map[string]any{
		"Message": "<b>disk full</b>",
		"Details": []string{`"data" directory is not writable`},
	}
	if err := tmpl.ExecuteTemplate(&buf, "error", data); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<b>disk full</b>") {
		t.Error("Expected the message to be escaped")
	}
	if !strings.Contains(out, "directory is not writable") {
		t.Error("Expected details to be listed")
	}
}
