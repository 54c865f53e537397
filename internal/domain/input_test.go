package domain

import (
	"strings"
	"testing"
)

func TestExtractQueryText_Passthrough(t *testing.T) {
	in := "machine learning platforms for patents"
	if got := ExtractQueryText(in); got != in {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestExtractQueryText_LeadingBracePassthrough(t *testing.T) {
	// A payload is only detected after some free text.
	in := `{"domain": "robotics"}`
	if got := ExtractQueryText(in); got != in {
		t.Fatalf("expected passthrough for leading brace, got %q", got)
	}
}

func TestExtractQueryText_AppendsPayloadStrings(t *testing.T) {
	in := `find trends {"domain": "robotics", "tags": ["ai", "automation"], "depth": 3}`

	got := ExtractQueryText(in)
	if !strings.HasPrefix(got, "find trends") {
		t.Fatalf("free text lost: %q", got)
	}
	for _, want := range []string{"robotics", "ai", "automation"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing payload string %q in %q", want, got)
		}
	}
	if strings.Contains(got, "3") {
		t.Errorf("numeric value leaked into query text: %q", got)
	}
}

func TestExtractQueryText_NestedPayload(t *testing.T) {
	in := `query {"outer": {"inner": {"value": "deep"}}}`

	got := ExtractQueryText(in)
	if !strings.Contains(got, "deep") {
		t.Fatalf("nested string not extracted: %q", got)
	}
}

func TestExtractQueryText_InvalidPayload(t *testing.T) {
	in := `some text {not json at all`

	if got := ExtractQueryText(in); got != "some text" {
		t.Fatalf("expected text part only, got %q", got)
	}
}

func TestExtractQueryText_EmptyPayload(t *testing.T) {
	in := `some text {"count": 7}`

	if got := ExtractQueryText(in); got != "some text" {
		t.Fatalf("expected text part only when payload has no strings, got %q", got)
	}
}

func TestCollectStrings_DepthGuard(t *testing.T) {
	// Build a payload nested beyond the guard.
	var node any = "leaf"
	for i := 0; i < maxPayloadDepth+10; i++ {
		node = map[string]any{"k": node}
	}

	if got := collectStrings(node, 0); len(got) != 0 {
		t.Fatalf("expected depth guard to drop over-deep values, got %v", got)
	}
}
