package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/pipeline"
)

const promoPage = `{"id": "promo", "title": "Promo", "blocks": [
  {"__typename": "GLTextBlock", "systemId": "t1", "fields": {"blockTitle": "Spring Sale"}},
  {"__typename": "GLCarouselBannerBlock", "systemId": "c1", "fields": {"carouselSlides": [{"title": "One"}, {"title": "Two"}, {"title": "Three"}]}},
  {"__typename": "GLLegacyBlock", "systemId": "old"}
]}`

// writeFixture writes a page file and a config that disables caching.
func writeFixture(t *testing.T) (pagePath, configPath string) {
	t.Helper()
	dir := t.TempDir()
	pagePath = filepath.Join(dir, "promo.json")
	if err := os.WriteFile(pagePath, []byte(promoPage), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath = filepath.Join(dir, "storeblocks.toml")
	cfg := "[source]\ndir = \"" + filepath.ToSlash(dir) + "\"\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return pagePath, configPath
}

func quietUI(t *testing.T) {
	t.Helper()
	old := uiOut
	uiOut = io.Discard
	t.Cleanup(func() { uiOut = old })
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(t.Context())
}

func TestRenderFile(t *testing.T) {
	quietUI(t)
	page, cfg := writeFixture(t)
	out := filepath.Join(t.TempDir(), "promo.html")

	if err := runCLI(t, "render", "--config", cfg, "--file", page, "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("expected a complete document, got %.40q", html)
	}
	if !strings.Contains(html, "Spring Sale") {
		t.Error("text block missing from output")
	}
	if strings.Contains(html, "GLLegacyBlock") {
		t.Error("unknown block should be skipped by default")
	}
}

func TestRenderFileBlock(t *testing.T) {
	quietUI(t)
	page, cfg := writeFixture(t)
	out := filepath.Join(t.TempDir(), "c1.html")

	err := runCLI(t, "render", "--config", cfg, "--file", page, "--block", "c1", "--slide", "c1:2", "--unknown", "placeholder", "-o", out)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.Contains(html, `data-current="2"`) {
		t.Error("requested slide not selected")
	}
	if strings.Contains(html, "Spring Sale") || strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("block render should contain only the block fragment")
	}
}

func TestRenderFileJSON(t *testing.T) {
	quietUI(t)
	page, cfg := writeFixture(t)
	out := filepath.Join(t.TempDir(), "summary.json")

	if err := runCLI(t, "render", "--config", cfg, "--file", page, "--json", "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got renderSummary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON summary: %v", err)
	}
	if got.Page != "promo" || got.Stats.Rendered != 2 || got.Stats.Unknown != 1 {
		t.Errorf("summary = %+v", got)
	}
	if len(got.Issues) != 1 || got.Issues[0].BlockID != "old" {
		t.Errorf("issues = %+v, want the legacy block", got.Issues)
	}
}

func TestRenderRequiresPage(t *testing.T) {
	quietUI(t)
	_, cfg := writeFixture(t)
	if err := runCLI(t, "render", "--config", cfg); err == nil {
		t.Error("render without page id or --file should fail")
	}
}

func TestParseSlideFlags(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    map[string]int
		wantErr bool
	}{
		{"none", nil, nil, false},
		{"single", []string{"c1:2"}, map[string]int{"c1": 2}, false},
		{"several", []string{"c1:0", "t2:3"}, map[string]int{"c1": 0, "t2": 3}, false},
		{"id with colon", []string{"a:b:1"}, map[string]int{"a:b": 1}, false},
		{"missing block", []string{":2"}, nil, true},
		{"missing index", []string{"c1"}, nil, true},
		{"negative", []string{"c1:-1"}, nil, true},
		{"not a number", []string{"c1:x"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSlideFlags(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSlideFlags(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseSlideFlags(%v) = %v, want %v", tt.input, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseSlideFlags(%v)[%q] = %d, want %d", tt.input, k, got[k], v)
				}
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	res := &pipeline.Result{
		Page: block.Page{ID: "home", Title: "Home"},
		Blocks: []pipeline.Rendered{
			{ID: "t1", Typename: "GLTextBlock", HTML: "<p>hi</p>", Cached: true},
		},
		Stats:     pipeline.Stats{Blocks: 2, Rendered: 1, Invalid: 1, RenderTime: 3 * time.Millisecond},
		CacheInfo: pipeline.CacheInfo{PageHit: true, BlockHits: 1},
	}

	got := summarize(res)
	if got.Page != "home" || got.Title != "Home" || !got.PageCache {
		t.Errorf("summary header = %+v", got)
	}
	if len(got.Blocks) != 1 || got.Blocks[0].Bytes != len("<p>hi</p>") || !got.Blocks[0].Cached {
		t.Errorf("summary blocks = %+v", got.Blocks)
	}
	if got.Stats.RenderMS != 3 || got.Stats.Invalid != 1 {
		t.Errorf("summary stats = %+v", got.Stats)
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(pipeline.Stats{Blocks: 4, Rendered: 2, Unknown: 1, Invalid: 1}, pipeline.CacheInfo{BlockHits: 2})
	for _, want := range []string{"4 blocks", "2 rendered", "2 skipped", "2 cached", "fresh"} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
}

func TestPrintIssues(t *testing.T) {
	var buf bytes.Buffer
	old := uiOut
	uiOut = &buf
	defer func() { uiOut = old }()

	printIssues([]pipeline.Issue{{BlockID: "old", Typename: "GLLegacyBlock", Message: "unknown typename"}})
	if !strings.Contains(buf.String(), "GLLegacyBlock old: unknown typename") {
		t.Errorf("printIssues() = %q", buf.String())
	}
}
