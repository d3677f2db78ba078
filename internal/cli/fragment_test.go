package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeblocks/pkg/source"
)

func runFragment(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetArgs(append([]string{"fragment"}, args...))
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("fragment %v: %v", args, err)
	}
	return buf.String()
}

func TestFragmentQuery(t *testing.T) {
	out := runFragment(t, "--query")

	if !strings.HasPrefix(out, source.DefaultPageQuery+"\nfragment AllBlockTypes on IBlockItem {") {
		t.Errorf("query document should be followed by one blank line and the fragments, got:\n%.300s", out)
	}
	if strings.Contains(out, "}\n\n\n") {
		t.Error("query document has a doubled blank line")
	}
}

func TestFragmentList(t *testing.T) {
	out := runFragment(t)
	if !strings.Contains(out, "GLContactFormBlock\n") {
		t.Errorf("typename list missing GLContactFormBlock:\n%s", out)
	}
}

func TestFragmentSelected(t *testing.T) {
	out := runFragment(t, "GLTextBlock", "GLContactFormBlock")
	if !strings.Contains(out, "fragment GLTextBlock") || !strings.Contains(out, "fragment GLContactFormBlock") {
		t.Errorf("missing requested fragments:\n%s", out)
	}
}
