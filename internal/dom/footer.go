package dom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgnsrekt/return_notice/internal/notice"
)

// The server renders the dialog, but dismissal and the address rewrite must
// still happen in the visitor's browser. These footer scripts replay them.

const jsDismissWiring = `(function (cfg) {
  var overlay = document.getElementById(cfg.id);
  if (!overlay) return;
  var closeButton = overlay.querySelector("." + cfg.closeClass);
  var onKeyDown = function (event) {
    if (event.key === "Escape") closeModal();
  };
  var closeModal = function () {
    document.removeEventListener("keydown", onKeyDown);
    overlay.remove();
    document.body.style.overflow = cfg.restore;
  };
  if (closeButton) closeButton.addEventListener("click", closeModal);
  overlay.addEventListener("click", function (event) {
    if (event.target === overlay) closeModal();
  });
  document.addEventListener("keydown", onKeyDown);
  if (closeButton) closeButton.focus();
})(%s);`

const jsReplaceState = `history.replaceState({}, document.title, %s + location.hash);`

func jsJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// AppendDismissWiring adds the client-side dismissal handlers for dialog id.
// restore is the overflow value captured before the dialog opened.
func (d *Document) AppendDismissWiring(id, restore string) {
	cfg := map[string]string{
		"id":         id,
		"closeClass": notice.ClassClose,
		"restore":    restore,
	}
	d.AppendScript(fmt.Sprintf(jsDismissWiring, jsJSON(cfg)))
}

// AppendReplaceState adds a script rewriting the visitor's address to ref.
// Browsers never send the fragment to the server, so any fragment in ref is
// dropped and the visitor's live location.hash is kept instead.
func (d *Document) AppendReplaceState(ref string) {
	ref, _, _ = strings.Cut(ref, "#")
	d.AppendScript(fmt.Sprintf(jsReplaceState, jsJSON(ref)))
}
