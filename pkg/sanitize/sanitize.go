// Package sanitize filters CMS rich text through an allow-list before it is
// emitted as markup.
//
// A [Policy] is built once from a [Config] and reused for every request. The
// builder rejects configurations that would let executable content through
// (script-like elements, event handler attributes), so a misconfigured preset
// fails at startup rather than at render time.
//
// Sanitizing never fails: malformed markup degrades to the best-effort
// fragment the HTML tokenizer recovers, disallowed elements are unwrapped
// (their text survives) and disallowed attributes are dropped.
package sanitize

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/matzehuels/storeblocks/pkg/errors"
)

// Config lists the elements and attributes a policy keeps. Attributes are
// allowed on every listed element.
type Config struct {
	AllowedTags       []string
	AllowedAttributes []string
}

// forbiddenTags can never be allow-listed: their content is executable or
// is parsed as raw text.
var forbiddenTags = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"noscript": true,
	"template": true,
	"frame":    true,
	"frameset": true,
	"base":     true,
	"meta":     true,
	"link":     true,
}

var forbiddenAttrs = map[string]bool{
	"srcdoc":     true,
	"formaction": true,
	"xmlns":      true,
}

var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Validate reports the first configuration error, or nil.
func (c Config) Validate() error {
	if len(c.AllowedTags) == 0 {
		return errors.New(errors.ErrCodeInvalidSanitizer, "allow-list has no tags")
	}
	if err := checkNames("tag", c.AllowedTags, func(n string) error {
		if forbiddenTags[n] {
			return errors.New(errors.ErrCodeInvalidSanitizer, "tag %q cannot be allowed", n)
		}
		return nil
	}); err != nil {
		return err
	}
	return checkNames("attribute", c.AllowedAttributes, func(n string) error {
		if strings.HasPrefix(n, "on") || forbiddenAttrs[n] {
			return errors.New(errors.ErrCodeInvalidSanitizer, "attribute %q cannot be allowed", n)
		}
		return nil
	})
}

func checkNames(kind string, names []string, extra func(string) error) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !nameRegex.MatchString(n) {
			return errors.New(errors.ErrCodeInvalidSanitizer, "invalid %s name %q", kind, n)
		}
		if seen[n] {
			return errors.New(errors.ErrCodeInvalidSanitizer, "duplicate %s %q", kind, n)
		}
		seen[n] = true
		if err := extra(n); err != nil {
			return err
		}
	}
	return nil
}

// Policy is a compiled allow-list. It is safe for concurrent use.
type Policy struct {
	cfg Config
	bm  *bluemonday.Policy
}

// New validates cfg and compiles it.
func New(cfg Config) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bm := bluemonday.NewPolicy()
	bm.AllowElements(cfg.AllowedTags...)
	if len(cfg.AllowedAttributes) > 0 {
		bm.AllowAttrs(cfg.AllowedAttributes...).OnElements(cfg.AllowedTags...)
	}
	bm.AllowStandardURLs()
	bm.AllowURLSchemes("mailto", "tel")
	// AllowStandardURLs adds rel="nofollow"; output keeps to the allow-list.
	bm.RequireNoFollowOnLinks(false)

	return &Policy{cfg: cloneConfig(cfg), bm: bm}, nil
}

// MustNew is like New but panics on a configuration error. It is meant for
// package-level presets.
func MustNew(cfg Config) *Policy {
	p, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("sanitize: %v", err))
	}
	return p
}

// Sanitize returns the allow-listed subset of s.
func (p *Policy) Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return p.bm.Sanitize(s)
}

// HTML sanitizes s and marks the result safe for html/template.
func (p *Policy) HTML(s string) template.HTML {
	return template.HTML(p.Sanitize(s))
}

// Config returns a copy of the configuration the policy was built from.
func (p *Policy) Config() Config {
	return cloneConfig(p.cfg)
}

func cloneConfig(c Config) Config {
	return Config{
		AllowedTags:       append([]string(nil), c.AllowedTags...),
		AllowedAttributes: append([]string(nil), c.AllowedAttributes...),
	}
}
