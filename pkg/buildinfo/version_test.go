package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestRevision(t *testing.T) {
	old := Commit
	defer func() { Commit = old }()

	a := Revision()
	Commit = "abc123"
	if Revision() == a {
		t.Error("Revision should change with the commit")
	}
	if Revision() != Version+"+abc123" {
		t.Errorf("Revision() = %q", Revision())
	}
}
