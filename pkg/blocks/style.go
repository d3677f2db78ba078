package blocks

import (
	"html/template"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var colorRegex = regexp.MustCompile(`^(#[0-9A-Fa-f]{3,8}|[A-Za-z]+|(rgb|rgba|hsl|hsla)\([0-9.,%\s/]+\))$`)

// classes joins the non-empty class names.
func classes(names ...string) string {
	out := names[:0:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

// pick returns a when cond holds, b otherwise.
func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// decl is one inline CSS declaration. Values that are not plain colours are
// dropped.
func decl(prop, value string) string {
	value = strings.TrimSpace(value)
	if value == "" || !colorRegex.MatchString(value) {
		return ""
	}
	return prop + ": " + value + ";"
}

// css joins declarations into a style attribute value.
func css(decls ...string) template.CSS {
	return template.CSS(classes(decls...))
}

// paint is a CMS colour value split into a utility class or an inline
// declaration. Values starting with "bg-" or "text-" are classes.
type paint struct {
	Class string
	Decl  string
}

func paintOf(prop, value string) paint {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "bg-") || strings.HasPrefix(value, "text-") {
		return paint{Class: value}
	}
	return paint{Decl: decl(prop, value)}
}

// safeURL keeps http, https, mailto, tel and relative URLs. Anything else
// becomes "#".
func safeURL(raw string) template.URL {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return template.URL(raw)
	}
	return "#"
}

// backgroundImage builds a background-image declaration for a safe URL.
func backgroundImage(raw string) string {
	u := string(safeURL(raw))
	if u == "" || u == "#" {
		return ""
	}
	esc := strings.NewReplacer(`"`, "%22", `'`, "%27", `(`, "%28", `)`, "%29", `\`, "%5C", "\n", "", "\r", "", " ", "%20", "<", "%3C", ">", "%3E")
	return `background-image: url("` + esc.Replace(u) + `");`
}

// linkTarget returns target and rel attributes for a link, opening
// external links in a new tab when newTabForExternal is set.
func linkTarget(target string, external, newTabForExternal bool) (string, string) {
	if target == "" {
		target = "_self"
		if external && newTabForExternal {
			target = "_blank"
		}
	}
	if target == "_blank" {
		return target, "noopener noreferrer"
	}
	return target, ""
}

// image is a rendered <img>.
type image struct {
	URL    template.URL
	Alt    string
	Width  int
	Height int
}

// anchor is a rendered link.
type anchor struct {
	Text   string
	URL    template.URL
	Target string
	Rel    string
}

func itoa(n int) string { return strconv.Itoa(n) }
