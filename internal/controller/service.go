package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dgnsrekt/return_notice/internal/config"
	"github.com/dgnsrekt/return_notice/internal/dom"
	"github.com/dgnsrekt/return_notice/internal/inspect"
	"github.com/dgnsrekt/return_notice/internal/notice"
	"github.com/dgnsrekt/return_notice/internal/notifier"
	"github.com/dgnsrekt/return_notice/internal/query"
	"github.com/dgnsrekt/return_notice/internal/scrub"
)

// InspectResult is the read-only view of a return query.
type InspectResult struct {
	Detected  bool            `json:"detected"`
	Completed bool            `json:"completed"`
	Summary   inspect.Summary `json:"summary"`
	Message   string          `json:"message,omitempty"`
}

// SanitizeResult is the scrubbed form of an address.
type SanitizeResult struct {
	URL     string `json:"url"`
	Changed bool   `json:"changed"`
	Removed int    `json:"removed"`
}

// Preview is a rendered dialog fragment.
type Preview struct {
	DialogID string `json:"dialog_id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	HTML     string `json:"html"`
}

// Page is a rendered site page and what the notifier did to it.
type Page struct {
	HTML    []byte
	Outcome notifier.Outcome
}

// Service runs the return notifier for the HTTP surfaces.
type Service struct {
	siteDir string
	profile config.Profile
	sink    notifier.Sink
}

// NewService serves pages from siteDir. sink may be nil.
func NewService(siteDir string, profile config.Profile, sink notifier.Sink) *Service {
	return &Service{siteDir: siteDir, profile: profile, sink: sink}
}

func (s *Service) requireNonEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return newError(CodeValidation, fieldName+" is required", nil)
	}
	return nil
}

func (s *Service) notifier() *notifier.Notifier {
	return notifier.New(notifier.Config{
		DialogID: s.profile.DialogID,
		Title:    s.profile.Title,
		Composer: s.profile.Composer(),
		Sink:     s.sink,
	})
}

// Inspect reports what the notifier would detect in rawQuery.
func (s *Service) Inspect(_ context.Context, rawQuery string) (InspectResult, error) {
	summary, detected := inspect.Inspect(strings.TrimPrefix(rawQuery, "?"))
	res := InspectResult{Detected: detected, Summary: summary, Completed: summary.Completed()}
	if detected && res.Completed {
		res.Message = s.profile.Composer().Message(summary)
	}
	return res, nil
}

// Sanitize scrubs href without touching any page. The result is always in
// the same form as href: an absolute href stays absolute.
func (s *Service) Sanitize(_ context.Context, href string) (SanitizeResult, error) {
	if err := s.requireNonEmpty(href, "url"); err != nil {
		return SanitizeResult{}, err
	}
	res := scrub.New().Sanitize(href)
	if !res.Changed() {
		return SanitizeResult{URL: href}, nil
	}
	resolved := query.SplitHref(href).Resolve(res.URL)
	return SanitizeResult{URL: resolved, Changed: true, Removed: res.Removed}, nil
}

// Preview renders the dialog for a return query, or for message when the
// query is empty.
func (s *Service) Preview(ctx context.Context, rawQuery, message string) (Preview, error) {
	if strings.TrimSpace(rawQuery) == "" && strings.TrimSpace(message) == "" {
		return Preview{}, newError(CodeValidation, "query or message is required", nil)
	}
	if message == "" {
		res, err := s.Inspect(ctx, rawQuery)
		if err != nil {
			return Preview{}, err
		}
		if !res.Completed {
			return Preview{}, newError(CodeValidation, "query does not describe a completed payment", nil)
		}
		message = res.Message
	}

	v := notice.View{
		ID:         s.profile.DialogID,
		Title:      s.profile.Title,
		Message:    message,
		CloseLabel: "Close",
		CloseText:  "×",
	}
	fragment, err := dom.RenderView(v)
	if err != nil {
		return Preview{}, newError(CodeRender, "render dialog", err)
	}
	return Preview{DialogID: v.ID, Title: v.Title, Message: message, HTML: fragment}, nil
}

// RenderPage loads the site page for urlPath and runs the notifier on it as
// if it were loaded from href.
func (s *Service) RenderPage(_ context.Context, urlPath, href string) (Page, error) {
	file, err := s.resolve(urlPath)
	if err != nil {
		return Page{}, err
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, newError(CodeNotFound, "page not found: "+urlPath, err)
		}
		return Page{}, newError(CodeRender, "read page", err)
	}

	page, err := s.Render(bytes.NewReader(raw), href)
	if err != nil {
		return Page{}, err
	}
	slog.Debug("page rendered", "path", urlPath, "shown", page.Outcome.Shown, "removed", page.Outcome.Sanitized.Removed)
	return page, nil
}

// Render runs the notifier over the HTML in r as if it were loaded from href
// and appends the footer scripts that replay dismissal and the address
// rewrite in the visitor's browser.
func (s *Service) Render(r io.Reader, href string) (Page, error) {
	doc, err := dom.Parse(r, href)
	if err != nil {
		return Page{}, newError(CodeRender, "parse page", err)
	}

	out := s.notifier().Run(doc)
	if out.Shown {
		doc.AppendDismissWiring(out.Dialog.ID(), out.Dialog.PreviousOverflow())
	}
	if ref, ok := doc.Replaced(); ok {
		doc.AppendReplaceState(ref)
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return Page{}, newError(CodeRender, "render page", err)
	}
	return Page{HTML: buf.Bytes(), Outcome: out}, nil
}

// resolve maps a URL path to a file under the site directory. Directory
// paths serve index.html; extensionless paths get ".html".
func (s *Service) resolve(urlPath string) (string, error) {
	clean := path.Clean("/" + urlPath)
	if strings.HasSuffix(urlPath, "/") || clean == "/" {
		clean = path.Join(clean, "index.html")
	} else if path.Ext(clean) == "" {
		clean += ".html"
	}
	if path.Ext(clean) != ".html" {
		return "", newError(CodeNotFound, "page not found: "+urlPath, nil)
	}
	return filepath.Join(s.siteDir, filepath.FromSlash(clean)), nil
}
