// Package view renders the memo pad: a heading, a labelled multi-line text
// surface and the conditional "saved" notice.
package view

import (
	"embed"
	"html/template"
	"io"
)

// Labels holds the user-visible strings of the memo pad.
type Labels struct {
	Heading     string
	Label       string
	Placeholder string
	Notice      string
}

// DefaultLabels are the Japanese strings the pad ships with.
var DefaultLabels = Labels{
	Heading:     "永続メモ帳",
	Label:       "あなたのメモ",
	Placeholder: "ここにメモを入力...",
	Notice:      "保存しました。",
}

// InputID ties the label to the text surface.
const InputID = "message"

// Page is the data for one render of the HTML view.
type Page struct {
	Labels        Labels
	Text          string
	NoticeVisible bool
	// APIBase is the prefix of the memo API, usually "/api".
	APIBase string
	// Token is sent as a bearer token by the page script when non-empty.
	Token string
}

//go:embed templates/page.html
var templateFS embed.FS

var pageTmpl = template.Must(template.New("page.html").
	Funcs(template.FuncMap{"inputID": func() string { return InputID }}).
	ParseFS(templateFS, "templates/page.html"))

// Render writes the HTML page for p.
func Render(w io.Writer, p Page) error {
	if p.APIBase == "" {
		p.APIBase = "/api"
	}
	return pageTmpl.Execute(w, p)
}
