package template

import (
	"fmt"
	stdtemplate "html/template"
	"io/fs"
	"net/http"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nextgig/job-board/internal/application"
	"github.com/nextgig/job-board/internal/format"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

const ViewsPattern = "static/views/*.html"

type Template struct {
	templates *stdtemplate.Template
	ugc       *bluemonday.Policy
}

func NewTemplate(fsys fs.FS) (*Template, error) {
	t := &Template{ugc: bluemonday.UGCPolicy()}
	funcMap := stdtemplate.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"humantime": humanize.Time,
		"humannumber": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"formatSalary": format.FormatSalary,
		"formatDate": func(t time.Time) string {
			return format.FormatDate(t, time.Now())
		},
		"applicationCount": format.FormatApplicationCount,
		"truncate":         format.TruncateText,
		"statusLabel": func(s interface{}) string {
			return format.StatusLabel(fmt.Sprint(s))
		},
		"isTrue": func(b *bool) bool {
			return b != nil && *b
		},
		"transitions":    application.AvailableTransitions,
		"currencysymbol": format.CurrencySymbol,
		"markdown":       t.MarkdownToHTML,
	}
	templates, err := stdtemplate.New("stdtmpl").Funcs(funcMap).ParseFS(fsys, ViewsPattern)
	if err != nil {
		return nil, err
	}
	t.templates = templates
	return t, nil
}

func (t *Template) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	w.WriteHeader(status)
	return t.templates.ExecuteTemplate(w, name, data)
}

// MarkdownToHTML renders user supplied markdown, sanitised for display.
func (t *Template) MarkdownToHTML(s string) stdtemplate.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	unsafe := blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer))
	return stdtemplate.HTML(t.ugc.SanitizeBytes(unsafe))
}
