package browser

import (
	"encoding/json"

	"github.com/dgnsrekt/return_notice/internal/notice"
)

const (
	codeEvalFailure = "EVAL_FAILURE"
	codeDuplicateID = "DUPLICATE_ID"
)

// keyRegistry is the window property holding live keydown handlers by token.
const keyRegistry = "__returnNoticeKeys"

func jsString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func jsJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// wrapJSEval wraps body in an IIFE that always returns a JSON envelope
// {ok, data, error_code, error_message}.
func wrapJSEval(body string) string {
	return `(function(){
try {
` + body + `
} catch (err) {
return JSON.stringify({ok:false,error_code:"` + codeEvalFailure + `",error_message:String(err && err.message || err)});
}
})()`
}

func jsHref() string {
	return wrapJSEval(`return JSON.stringify({ok:true,data:window.location.href});`)
}

func jsReplaceState(ref string) string {
	return wrapJSEval(`history.replaceState({}, document.title, ` + jsString(ref) + `);
return JSON.stringify({ok:true,data:window.location.href});`)
}

func jsOverflow() string {
	return wrapJSEval(`return JSON.stringify({ok:true,data:document.body.style.overflow});`)
}

func jsSetOverflow(v string) string {
	return wrapJSEval(`document.body.style.overflow = ` + jsString(v) + `;
return JSON.stringify({ok:true});`)
}

type mountSpec struct {
	View         notice.View `json:"view"`
	Binding      string      `json:"binding"`
	OverlayStyle string      `json:"overlayStyle"`
	SurfaceStyle string      `json:"surfaceStyle"`
	CloseStyle   string      `json:"closeStyle"`
	Classes      [5]string   `json:"classes"`
}

// jsMount builds the overlay with textContent only and reports pointer events
// through the CDP binding.
func jsMount(v notice.View, binding string) string {
	spec := mountSpec{
		View:         v,
		Binding:      binding,
		OverlayStyle: notice.OverlayStyle,
		SurfaceStyle: notice.SurfaceStyle,
		CloseStyle:   notice.CloseStyle,
		Classes:      [5]string{notice.ClassOverlay, notice.ClassSurface, notice.ClassClose, notice.ClassTitle, notice.ClassMessage},
	}
	return wrapJSEval(`var s = ` + jsJSON(spec) + `;
var v = s.view;
if (document.getElementById(v.ID)) {
  return JSON.stringify({ok:false,error_code:"` + codeDuplicateID + `",error_message:"element id already in use: " + v.ID});
}
var report = function (region) {
  window[s.binding](JSON.stringify({type:"pointer",id:v.ID,region:region}));
};
var overlay = document.createElement("div");
overlay.id = v.ID;
overlay.className = s.classes[0];
overlay.setAttribute("role", "dialog");
overlay.setAttribute("aria-modal", "true");
overlay.setAttribute("aria-labelledby", v.ID + "-title");
overlay.style.cssText = s.overlayStyle;

var modal = document.createElement("div");
modal.className = s.classes[1];
modal.style.cssText = s.surfaceStyle;

var closeButton = document.createElement("button");
closeButton.type = "button";
closeButton.className = s.classes[2];
closeButton.setAttribute("aria-label", v.CloseLabel);
closeButton.textContent = v.CloseText;
closeButton.style.cssText = s.closeStyle;

var title = document.createElement("h2");
title.id = v.ID + "-title";
title.className = s.classes[3];
title.textContent = v.Title;

var body = document.createElement("p");
body.className = s.classes[4];
body.textContent = v.Message;

closeButton.addEventListener("click", function (event) {
  event.stopPropagation();
  report("close");
});
overlay.addEventListener("click", function (event) {
  report(event.target === overlay ? "backdrop" : "surface");
});

modal.appendChild(closeButton);
modal.appendChild(title);
modal.appendChild(body);
overlay.appendChild(modal);
document.body.appendChild(overlay);
return JSON.stringify({ok:true});`)
}

func jsUnmount(id string) string {
	return wrapJSEval(`var el = document.getElementById(` + jsString(id) + `);
if (el) el.remove();
return JSON.stringify({ok:true,data:!!el});`)
}

func jsFocusClose(id string, closeClass string) string {
	return wrapJSEval(`var el = document.getElementById(` + jsString(id) + `);
var btn = el && el.querySelector("." + ` + jsString(closeClass) + `);
if (btn) btn.focus();
return JSON.stringify({ok:true,data:!!btn});`)
}

func jsListenKeys(binding string, token int) string {
	return wrapJSEval(`var reg = window.` + keyRegistry + ` = window.` + keyRegistry + ` || {};
var binding = ` + jsString(binding) + `;
var token = ` + jsJSON(token) + `;
reg[token] = function (event) {
  window[binding](JSON.stringify({type:"key",token:token,key:event.key}));
};
document.addEventListener("keydown", reg[token]);
return JSON.stringify({ok:true});`)
}

func jsStopKeys(token int) string {
	return wrapJSEval(`var reg = window.` + keyRegistry + ` || {};
var token = ` + jsJSON(token) + `;
if (reg[token]) {
  document.removeEventListener("keydown", reg[token]);
  delete reg[token];
}
return JSON.stringify({ok:true});`)
}

func jsDialogCount() string {
	return wrapJSEval(`return JSON.stringify({ok:true,data:document.querySelectorAll('[role="dialog"]').length});`)
}
