package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/dgnsrekt/return_notice/internal/notice"
)

// DefaultBinding is the window function the page calls to report input.
const DefaultBinding = "__returnNoticeEmit"

const codeEvalTimeout = "EVAL_TIMEOUT"

// eventQueueSize bounds buffered binding calls awaiting Wait.
const eventQueueSize = 32

// EvalError is a failed in-page evaluation.
type EvalError struct {
	Code    string
	Message string
	Cause   error
}

func (e *EvalError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *EvalError) Unwrap() error { return e.Cause }

type evalEnvelope struct {
	OK           bool            `json:"ok"`
	Data         json.RawMessage `json:"data"`
	ErrorCode    string          `json:"error_code"`
	ErrorMessage string          `json:"error_message"`
}

type bindingPayload struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Region string `json:"region"`
	Token  int    `json:"token"`
	Key    string `json:"key"`
}

// Tab hosts the notice inside a live browser tab. Host methods and Wait must
// be called from the same goroutine; CDP events are queued for Wait.
type Tab struct {
	ctx         context.Context
	evalTimeout time.Duration
	binding     string

	events    chan bindingPayload
	pointer   map[string]func(notice.Region)
	keys      map[int]func(string)
	nextToken int
}

// Attach connects to the browser at cdpURL and returns a context bound to a
// new tab. Cancel it to detach.
func Attach(parent context.Context, cdpURL string) (context.Context, context.CancelFunc, error) {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(parent, cdpURL)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		tabCancel()
		allocCancel()
	}
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("connect to browser: %w", err)
	}
	return tabCtx, cancel, nil
}

// NewTab enables the runtime domain on the chromedp tab context ctx and
// installs the input binding.
func NewTab(ctx context.Context, evalTimeout time.Duration) (*Tab, error) {
	if evalTimeout <= 0 {
		evalTimeout = 5 * time.Second
	}
	t := &Tab{
		ctx:         ctx,
		evalTimeout: evalTimeout,
		binding:     DefaultBinding,
		events:      make(chan bindingPayload, eventQueueSize),
		pointer:     make(map[string]func(notice.Region)),
		keys:        make(map[int]func(string)),
	}

	chromedp.ListenTarget(ctx, t.onEvent)
	if err := chromedp.Run(ctx, runtime.Enable(), runtime.AddBinding(t.binding)); err != nil {
		return nil, fmt.Errorf("install binding: %w", err)
	}
	return t, nil
}

// Navigate loads url in the tab.
func (t *Tab) Navigate(url string) error {
	if err := chromedp.Run(t.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	return nil
}

// onEvent runs on the chromedp event goroutine and must never block.
func (t *Tab) onEvent(ev any) {
	e, ok := ev.(*runtime.EventBindingCalled)
	if !ok || e.Name != t.binding {
		return
	}
	var p bindingPayload
	if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
		slog.Warn("browser binding payload invalid", "error", err)
		return
	}
	select {
	case t.events <- p:
	default:
		slog.Warn("browser binding event dropped", "type", p.Type)
	}
}

// Wait delivers page input to the dialog until it closes or ctx ends.
func (t *Tab) Wait(ctx context.Context, d *notice.Dialog) error {
	for d.State() == notice.StateOpen {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p := <-t.events:
			t.dispatch(p)
		}
	}
	return nil
}

func (t *Tab) dispatch(p bindingPayload) {
	switch p.Type {
	case "pointer":
		fn := t.pointer[p.ID]
		if fn == nil {
			return
		}
		if r, ok := parseRegion(p.Region); ok {
			fn(r)
		}
	case "key":
		// Tokens of stopped listeners are stale.
		if fn := t.keys[p.Token]; fn != nil {
			fn(p.Key)
		}
	}
}

func parseRegion(s string) (notice.Region, bool) {
	switch s {
	case "close":
		return notice.RegionClose, true
	case "backdrop":
		return notice.RegionBackdrop, true
	case "surface":
		return notice.RegionSurface, true
	}
	return 0, false
}

func (t *Tab) eval(js string, out any) error {
	ctx, cancel := context.WithTimeout(t.ctx, t.evalTimeout)
	defer cancel()

	var raw string
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &raw)); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &EvalError{Code: codeEvalTimeout, Message: "evaluation timed out", Cause: err}
		}
		return &EvalError{Code: codeEvalFailure, Message: "evaluation failed", Cause: err}
	}

	var env evalEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return &EvalError{Code: codeEvalFailure, Message: "invalid evaluation envelope", Cause: err}
	}
	if !env.OK {
		code := env.ErrorCode
		if code == "" {
			code = codeEvalFailure
		}
		return &EvalError{Code: code, Message: env.ErrorMessage}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &EvalError{Code: codeEvalFailure, Message: "decode evaluation data", Cause: err}
		}
	}
	return nil
}

// Href returns the tab location, or "" when it cannot be read.
func (t *Tab) Href() string {
	var href string
	if err := t.eval(jsHref(), &href); err != nil {
		slog.Warn("browser read location failed", "error", err)
		return ""
	}
	return href
}

// ReplaceState rewrites the current history entry.
func (t *Tab) ReplaceState(ref string) {
	if err := t.eval(jsReplaceState(ref), nil); err != nil {
		slog.Warn("browser replace state failed", "error", err)
	}
}

func (t *Tab) Overflow() string {
	var v string
	if err := t.eval(jsOverflow(), &v); err != nil {
		slog.Warn("browser read overflow failed", "error", err)
	}
	return v
}

func (t *Tab) SetOverflow(value string) {
	if err := t.eval(jsSetOverflow(value), nil); err != nil {
		slog.Warn("browser set overflow failed", "error", err)
	}
}

func (t *Tab) Mount(v notice.View, onPointer func(notice.Region)) error {
	if err := t.eval(jsMount(v, t.binding), nil); err != nil {
		return fmt.Errorf("mount %s: %w", v.ID, err)
	}
	t.pointer[v.ID] = onPointer
	return nil
}

func (t *Tab) Unmount(id string) {
	delete(t.pointer, id)
	if err := t.eval(jsUnmount(id), nil); err != nil {
		slog.Warn("browser unmount failed", "dialog_id", id, "error", err)
	}
}

func (t *Tab) FocusClose(id string) {
	if err := t.eval(jsFocusClose(id, notice.ClassClose), nil); err != nil {
		slog.Warn("browser focus failed", "dialog_id", id, "error", err)
	}
}

func (t *Tab) ListenKeys(fn func(key string)) func() {
	t.nextToken++
	token := t.nextToken
	if err := t.eval(jsListenKeys(t.binding, token), nil); err != nil {
		slog.Warn("browser key listener failed", "error", err)
	}
	t.keys[token] = fn
	return func() {
		if _, ok := t.keys[token]; !ok {
			return
		}
		delete(t.keys, token)
		if err := t.eval(jsStopKeys(token), nil); err != nil {
			slog.Warn("browser key listener removal failed", "error", err)
		}
	}
}

// DialogCount returns the number of role=dialog elements in the page.
func (t *Tab) DialogCount() (int, error) {
	var n int
	if err := t.eval(jsDialogCount(), &n); err != nil {
		return 0, err
	}
	return n, nil
}
