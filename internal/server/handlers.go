package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/buildinfo"
	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/forms"
	"github.com/matzehuels/storeblocks/pkg/observability"
	"github.com/matzehuels/storeblocks/pkg/pipeline"
	"github.com/matzehuels/storeblocks/pkg/submissions"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	opts, err := s.pageOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeHTML(w, http.StatusOK, result.HTML)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blockID := chi.URLParam(r, "blockID")

	opts, err := s.pageOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	page, err := s.runner.Fetch(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, ok := findBlock(page, blockID)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "block %q not found on page %q", blockID, page.ID))
		return
	}
	form, ok := blocks.FormFor(d, page.ID)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "block %q is not a form", blockID))
		return
	}
	if err := r.ParseForm(); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form"))
		return
	}
	values := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}

	start := time.Now()
	state := form.Submit(ctx, values, s.submitFunc())
	observability.Forms().OnSubmit(ctx, d.Typename, string(state.Status), time.Since(start))
	s.logger.Info("form submitted",
		"page", page.ID,
		"block", blockID,
		"form", form.Def.Name,
		"status", state.Status,
		"submission", state.SubmissionID)

	status := http.StatusOK
	if state.Status == forms.StatusError {
		status = http.StatusUnprocessableEntity
	}
	if wantsJSON(r) {
		writeJSON(w, status, submitResponse{
			Status:       string(state.Status),
			Message:      state.Message,
			SubmissionID: state.SubmissionID,
		})
		return
	}

	opts.Forms = map[string]*forms.State{blockID: &state}
	result, err := s.runner.RenderPage(ctx, page, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeHTML(w, status, result.HTML)
}

type submitResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
}

func (s *Server) submitFunc() forms.SubmitFunc {
	if s.cfg.Store == nil {
		return s.cfg.Forward
	}
	return submissions.Handler(s.cfg.Store, s.cfg.Forward)
}

// handleItem records a click on a product or category card and redirects
// to the item's own URL. The item must be displayed by the block; its link
// comes from the page data or the catalog, never from the request.
func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blockID, itemID := chi.URLParam(r, "blockID"), chi.URLParam(r, "itemID")

	opts, err := s.pageOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	page, err := s.runner.Fetch(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, ok := findBlock(page, blockID)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "block %q not found on page %q", blockID, page.ID))
		return
	}
	to, err := s.itemLink(ctx, d, itemID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !safeRedirect(to) {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "item %q has no usable link", itemID))
		return
	}
	s.logger.Info("item click", "page", page.ID, "block", blockID, "item", itemID)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// itemLink finds itemID among the catalog records block d displays.
// Inline records carry their URL; bare ids go through the runner's catalog.
func (s *Server) itemLink(ctx context.Context, d block.Descriptor, itemID string) (string, error) {
	products, categories := blocks.CatalogRefs(d)
	if ref, ok := findRef(products, itemID); ok {
		if ref.Inline() {
			return ref.Product().URL, nil
		}
		if s.runner.Catalog != nil {
			found, err := s.runner.Catalog.Products(ctx, []string{itemID})
			if err != nil {
				return "", errors.Wrap(errors.ErrCodeNetwork, err, "resolve product %s", itemID)
			}
			for _, p := range found {
				if p.ID == itemID {
					return p.URL, nil
				}
			}
		}
	}
	if ref, ok := findRef(categories, itemID); ok {
		if ref.Inline() {
			return ref.Category().URL, nil
		}
		if s.runner.Catalog != nil {
			found, err := s.runner.Catalog.Categories(ctx, []string{itemID})
			if err != nil {
				return "", errors.Wrap(errors.ErrCodeNetwork, err, "resolve category %s", itemID)
			}
			for _, c := range found {
				if c.ID == itemID {
					return c.URL, nil
				}
			}
		}
	}
	return "", errors.New(errors.ErrCodeNotFound, "item %q not found in block %q", itemID, d.ID())
}

func findRef(refs []catalog.Ref, id string) (catalog.Ref, bool) {
	for _, ref := range refs {
		if ref.ID == id && id != "" {
			return ref, true
		}
	}
	return catalog.Ref{}, false
}

func safeRedirect(to string) bool {
	if to == "" {
		return false
	}
	if strings.HasPrefix(to, "/") {
		return !strings.HasPrefix(to, "//") && !strings.HasPrefix(to, "/\\")
	}
	u, err := url.Parse(to)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *Server) handleFragmentList(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, name := range s.fragments.Typenames() {
		fmt.Fprintln(w, name)
	}
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	frag, err := s.fragments.Fragment(chi.URLParam(r, "typename"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/graphql; charset=utf-8")
	_, _ = w.Write([]byte(frag))
}

// pageOptions builds render options from the server defaults and the
// request: ?block= narrows to one block, ?slide= picks carousel slides.
func (s *Server) pageOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.PageID = chi.URLParam(r, "pageID")
	if err := errors.ValidatePageID(opts.PageID); err != nil {
		return opts, err
	}
	q := r.URL.Query()
	opts.Block = q.Get("block")
	opts.Document = opts.Block == ""

	slides, err := parseSlides(q["slide"], opts.Block)
	if err != nil {
		return opts, err
	}
	opts.Slides = slides
	opts.Actions = pipeline.Actions{
		Form:  formAction,
		Item:  itemAction,
		Slide: slideAction,
	}
	opts.Logger = s.logger
	return opts, nil
}

// parseSlides reads slide values of the form "<blockID>:<n>". A bare
// number applies to the requested block.
func parseSlides(values []string, blockID string) (map[string]int, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(values))
	for _, v := range values {
		id, n := blockID, v
		if i := strings.LastIndexByte(v, ':'); i >= 0 {
			id, n = v[:i], v[i+1:]
		}
		idx, err := strconv.Atoi(n)
		if err != nil || id == "" || idx < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid slide %q", v)
		}
		out[id] = idx
	}
	return out, nil
}

func formAction(pageID, blockID string) string {
	return "/pages/" + url.PathEscape(pageID) + "/forms/" + url.PathEscape(blockID)
}

func itemAction(pageID, blockID, itemID string) string {
	return "/pages/" + url.PathEscape(pageID) + "/items/" + url.PathEscape(blockID) + "/" + url.PathEscape(itemID)
}

func slideAction(pageID, blockID string, slide int) string {
	q := url.Values{"slide": {blockID + ":" + strconv.Itoa(slide)}}
	return "/pages/" + url.PathEscape(pageID) + "?" + q.Encode() + "#block-" + blockID
}

func findBlock(page block.Page, id string) (block.Descriptor, bool) {
	for _, d := range page.Blocks {
		if d.ID() == id {
			return d, true
		}
	}
	return block.Descriptor{}, false
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeHTML(w http.ResponseWriter, status int, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err)})
}
