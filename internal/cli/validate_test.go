package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/schema"
	"github.com/matzehuels/storeblocks/pkg/source"
)

func TestValidatePage(t *testing.T) {
	page, err := source.DecodePage([]byte(`{"id": "home", "blocks": [
  {"__typename": "GLTextBlock", "systemId": "t1", "fields": {"blockTitle": "Welcome"}},
  {"__typename": "GLTextBlock", "systemId": "bad", "fields": {"blockTitle": {"nested": true}}},
  {"__typename": "GLLegacyBlock", "systemId": "old"},
  {"__typename": "GLMonoBanner", "systemId": "m1"}
]}`), "home")
	if err != nil {
		t.Fatal(err)
	}
	reg, err := blocks.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	findings := validatePage(page, reg, schema.Builtin())
	if len(findings) != 2 {
		t.Fatalf("findings = %q, want 2", findings)
	}
	if !strings.HasPrefix(findings[0], "GLTextBlock bad: fields.blockTitle") {
		t.Errorf("findings[0] = %q", findings[0])
	}
	if findings[1] != "GLLegacyBlock old: unknown typename" {
		t.Errorf("findings[1] = %q", findings[1])
	}
}

func TestValidateCommand(t *testing.T) {
	quietUI(t)
	page, cfg := writeFixture(t)

	if err := runCLI(t, "validate", "--config", cfg, page); err == nil {
		t.Error("page with an unknown block should fail validation")
	}

	clean := filepath.Join(t.TempDir(), "clean.json")
	body := `{"blocks": [{"__typename": "GLTextBlock", "systemId": "t1", "fields": {"blockTitle": "Hi"}}]}`
	if err := os.WriteFile(clean, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "validate", "--config", cfg, clean); err != nil {
		t.Errorf("clean page failed validation: %v", err)
	}
}

func TestBlocksTable(t *testing.T) {
	out := blocksTable(blocks.Kinds(), schema.Builtin(), true)
	for _, want := range []string{"GLTextBlock", "GLMonoBanner", "fields.blockTitle"} {
		if !strings.Contains(out, want) {
			t.Errorf("blocksTable() missing %q", want)
		}
	}
}

func TestValuesSummary(t *testing.T) {
	got := valuesSummary(map[string]string{"email": "ada@example.com", "firstName": "Ada", "message": "hi"})
	if got != "ada@example.com Ada" {
		t.Errorf("valuesSummary() = %q", got)
	}
	got = valuesSummary(map[string]string{"company": "ACME", "budget": "10k"})
	if got != "budget=10k company=ACME" {
		t.Errorf("valuesSummary() = %q", got)
	}
}
