package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/forms"
	"github.com/matzehuels/storeblocks/pkg/pipeline"
	"github.com/matzehuels/storeblocks/pkg/source"
	"github.com/matzehuels/storeblocks/pkg/submissions"
)

var testPages = map[string]string{
	"home": `{"id": "home", "title": "Home", "blocks": [
  {"__typename": "GLTextBlock", "systemId": "t1", "fields": {"blockTitle": "Welcome"}},
  {"__typename": "GLCarouselBannerBlock", "systemId": "c1", "fields": {"carouselSlides": [{"title": "One"}, {"title": "Two"}, {"title": "Three"}]}}
]}`,
	"contact": `{"id": "contact", "title": "Contact", "blocks": [
  {"__typename": "GLContactFormBlock", "systemId": "f1", "fields": {"title": "Write us"}},
  {"__typename": "GLTextBlock", "systemId": "t1", "fields": {"blockTitle": "Hours"}}
]}`,
	"shop": `{"id": "shop", "title": "Shop", "blocks": [
  {"__typename": "GLProductListingBlock", "systemId": "l1", "fields": {"blockTitle": "Picks", "productsLinkList": [
    {"item": {"id": "p1", "name": "Drill", "url": "/products/p1"}},
    {"item": {"id": "p2", "name": "Broken", "url": "javascript:alert(1)"}},
    "p3"
  ]}},
  {"__typename": "GLProductCategoryBlock", "systemId": "k1", "fields": {"categoryList": [
    {"item": {"id": "c1", "name": "Tools", "url": "https://shop.example.com/tools"}}
  ]}}
]}`,
}

var testCatalog = catalog.Export{
	Products: []catalog.Product{{ID: "p3", Name: "Sander", URL: "https://shop.example.com/p3"}},
}

type testEnv struct {
	srv   *Server
	store *submissions.FileStore
}

func newTestServer(t *testing.T, forward forms.SubmitFunc) testEnv {
	t.Helper()
	dir := t.TempDir()
	for id, body := range testPages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(body), 0o644))
	}
	src, err := source.NewFile(dir)
	require.NoError(t, err)
	reg, err := blocks.NewRegistry()
	require.NoError(t, err)
	store, err := submissions.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(src, reg, nil, nil, logger)
	runner.Catalog = catalog.NewStatic(testCatalog)
	srv := New(runner, Config{Store: store, Forward: forward, Logger: logger})
	return testEnv{srv: srv, store: store}
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	env := newTestServer(t, nil)
	rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestVersion(t *testing.T) {
	env := newTestServer(t, nil)
	rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "version")
}

func TestPage(t *testing.T) {
	env := newTestServer(t, nil)
	rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, "/pages/home", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.Contains(t, body, "Welcome")
	assert.Contains(t, body, `href="/pages/home?slide=c1%3A1#block-c1"`)
	assert.Contains(t, body, "<script>")
}

func TestPageSlide(t *testing.T) {
	env := newTestServer(t, nil)

	rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, "/pages/home?slide=c1:2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-current="2"`)

	rec = do(t, env.srv, httptest.NewRequest(http.MethodGet, "/pages/home?block=c1&slide=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-current="1"`)
	assert.NotContains(t, body, "Welcome")
	assert.False(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
}

func TestPageErrors(t *testing.T) {
	env := newTestServer(t, nil)
	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"missing page", "/pages/nope", http.StatusNotFound, "PAGE_NOT_FOUND"},
		{"missing block", "/pages/home?block=zz", http.StatusNotFound, "NOT_FOUND"},
		{"bad slide", "/pages/home?slide=c1:x", http.StatusBadRequest, "INVALID_INPUT"},
		{"traversal", "/pages/a..b", http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, string(body.Code))
			assert.NotEmpty(t, body.Message)
		})
	}
}

func contactValues() url.Values {
	return url.Values{
		"blockId":      {"f1"},
		"firstName":    {"Ada"},
		"lastName":     {"Lovelace"},
		"email":        {"ada@example.com"},
		"phone":        {"+1 555 123 4567"},
		"organization": {"Analytical Engines"},
		"message":      {"Please call back."},
	}
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSubmit(t *testing.T) {
	var forwarded []forms.Submission
	env := newTestServer(t, func(_ context.Context, s forms.Submission) error {
		forwarded = append(forwarded, s)
		return nil
	})

	rec := do(t, env.srv, postForm("/pages/contact/forms/f1", contactValues()))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Thank you for contacting us!")
	assert.Contains(t, body, "Hours", "the rest of the page is rendered too")

	require.Len(t, forwarded, 1)
	assert.Equal(t, "Ada", forwarded[0].Values["firstName"])
	assert.NotContains(t, forwarded[0].Values, "blockId")

	records, err := env.store.List(context.Background(), submissions.Filter{Form: "contact"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "f1", records[0].BlockID)
	assert.Equal(t, "contact", records[0].PageID)
}

func TestSubmitInvalid(t *testing.T) {
	env := newTestServer(t, nil)
	values := contactValues()
	values.Del("lastName")
	values.Del("email")

	rec := do(t, env.srv, postForm("/pages/contact/forms/f1", values))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please fill in required fields: Last Name, Email")
	assert.Contains(t, body, `value="Ada"`, "submitted values are echoed back")

	records, err := env.store.List(context.Background(), submissions.Filter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmitJSON(t *testing.T) {
	env := newTestServer(t, nil)
	req := postForm("/pages/contact/forms/f1", contactValues())
	req.Header.Set("Accept", "application/json")

	rec := do(t, env.srv, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.SubmissionID)

	rec2, err := env.store.Get(context.Background(), resp.SubmissionID)
	require.NoError(t, err)
	require.NotNil(t, rec2)
	assert.Equal(t, "ada@example.com", rec2.Values["email"])
}

func TestSubmitErrors(t *testing.T) {
	env := newTestServer(t, nil)

	rec := do(t, env.srv, postForm("/pages/contact/forms/t1", contactValues()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, env.srv, postForm("/pages/contact/forms/zz", contactValues()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

var itemLinkRe = regexp.MustCompile(`href="(/pages/shop/items/[^"]+)"`)

func TestItemLinksFromRenderedPage(t *testing.T) {
	env := newTestServer(t, nil)
	page := do(t, env.srv, httptest.NewRequest(http.MethodGet, "/pages/shop", nil))
	require.Equal(t, http.StatusOK, page.Code)

	var links []string
	for _, m := range itemLinkRe.FindAllStringSubmatch(page.Body.String(), -1) {
		links = append(links, m[1])
	}
	require.ElementsMatch(t, []string{
		"/pages/shop/items/l1/p1",
		"/pages/shop/items/l1/p2",
		"/pages/shop/items/l1/p3",
		"/pages/shop/items/k1/c1",
	}, links)

	want := map[string]struct {
		status   int
		location string
	}{
		"/pages/shop/items/l1/p1": {http.StatusSeeOther, "/products/p1"},
		"/pages/shop/items/l1/p2": {http.StatusBadRequest, ""},
		"/pages/shop/items/l1/p3": {http.StatusSeeOther, "https://shop.example.com/p3"},
		"/pages/shop/items/k1/c1": {http.StatusSeeOther, "https://shop.example.com/tools"},
	}
	for _, link := range links {
		t.Run(link, func(t *testing.T) {
			rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, link, nil))
			assert.Equal(t, want[link].status, rec.Code)
			assert.Equal(t, want[link].location, rec.Header().Get("Location"))
		})
	}
}

func TestItemRedirectIgnoresClientTarget(t *testing.T) {
	env := newTestServer(t, nil)
	path := "/pages/shop/items/l1/p1?to=" + url.QueryEscape("https://evil.example/phish")
	rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products/p1", rec.Header().Get("Location"))
}

func TestItemRedirectUnknown(t *testing.T) {
	env := newTestServer(t, nil)
	for _, path := range []string{
		"/pages/shop/items/l1/zz",
		"/pages/shop/items/zz/p1",
		"/pages/home/items/t1/p1",
		"/pages/missing/items/l1/p1",
	} {
		rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Empty(t, rec.Header().Get("Location"), path)
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		to   string
		want bool
	}{
		{"/products/p1", true},
		{"https://shop.example.com/p1", true},
		{"//evil.example.com", false},
		{"/\\evil.example.com", false},
		{"javascript:alert(1)", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirect(tt.to), tt.to)
	}
}

func TestFragments(t *testing.T) {
	env := newTestServer(t, nil)

	rec := do(t, env.srv, httptest.NewRequest(http.MethodGet, "/fragments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GLTextBlock\n")

	rec = do(t, env.srv, httptest.NewRequest(http.MethodGet, "/fragments/GLTextBlock", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "on GLTextBlock")

	rec = do(t, env.srv, httptest.NewRequest(http.MethodGet, "/fragments/GLNothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseSlides(t *testing.T) {
	got, err := parseSlides([]string{"c1:2", "t9:0"}, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"c1": 2, "t9": 0}, got)

	got, err = parseSlides([]string{"3"}, "c1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"c1": 3}, got)

	for _, bad := range []string{"3", "c1:-1", ":2", "c1:two"} {
		_, err := parseSlides([]string{bad}, "")
		assert.Error(t, err, bad)
	}

	got, err = parseSlides(nil, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestActions(t *testing.T) {
	assert.Equal(t, "/pages/home/forms/f1", formAction("home", "f1"))
	assert.Equal(t, "/pages/home/items/l1/p%201", itemAction("home", "l1", "p 1"))
	assert.Equal(t, "/pages/home?slide=c1%3A2#block-c1", slideAction("home", "c1", 2))
}
