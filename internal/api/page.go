package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/starford/memopad/internal/notice"
	"github.com/starford/memopad/internal/view"
)

// PageHandler serves the HTML view. In token mode the page is only served
// with a matching ?token= query parameter, which the page script then reuses.
func PageHandler(memo MemoService, ns NoticeSource, labels view.Labels, authEnabled bool, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := view.Page{
			Labels:        labels,
			Text:          memo.Snapshot().Text,
			NoticeVisible: ns.State() == notice.Visible,
		}
		if authEnabled {
			if !tokenEqual(r.URL.Query().Get("token"), token) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			page.Token = token
		}

		var buf bytes.Buffer
		if err := view.Render(&buf, page); err != nil {
			slog.Error("render page failed", slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	}
}
