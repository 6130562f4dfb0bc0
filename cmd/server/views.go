package main

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/liamcoop/churn/customer"
	"github.com/liamcoop/churn/inference"
	"github.com/liamcoop/churn/internal/config"
	"github.com/liamcoop/churn/internal/i18n"
	"github.com/liamcoop/churn/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type fieldView struct {
	Name    string
	Label   string
	Value   string
	Select  bool
	Options []optionView
	Input   string // range or number
	Min     string
	Max     string
	Step    string
}

type reviewView struct {
	Label string
	Value string
}

type resultView struct {
	Churn      bool
	Verdict    string
	Confidence string
}

type pageView struct {
	Lang   string
	Text   map[string]string
	Fields []fieldView
	Review [][]reviewView
	Result *resultView
	Error  string
}

var screenText = []string{
	"Customer Churn Prediction",
	"Customer Data",
	"Review",
	"Update review",
	"Predict now",
	"Analysis Result",
	"Field",
	"Value",
}

// newPage builds the screen for a record in the requested language
func (s *Server) newPage(tag language.Tag, rec customer.Record) *pageView {
	p := i18n.Printer(tag)

	page := &pageView{
		Lang: tag.String(),
		Text: make(map[string]string, len(screenText)),
	}
	for _, key := range screenText {
		page.Text[key] = p.Sprintf(key)
	}

	form := rec.Form()
	for _, f := range customer.Fields() {
		page.Fields = append(page.Fields, s.fieldWidget(p, f, form))
	}

	for _, group := range rec.Review(s.cfg.SplitReview()) {
		rows := make([]reviewView, 0, len(group))
		for _, item := range group {
			f, _ := customer.Lookup(item.Field)
			rows = append(rows, reviewView{Label: p.Sprintf(f.Label), Value: displayValue(p, f, item.Value)})
		}
		page.Review = append(page.Review, rows)
	}
	return page
}

func (s *Server) fieldWidget(p *message.Printer, f customer.Field, form url.Values) fieldView {
	fv := fieldView{
		Name:  f.Name,
		Label: p.Sprintf(f.Label),
		Value: form.Get(f.Name),
	}

	if !f.Kind.Numeric() {
		fv.Select = true
		for _, o := range f.Options {
			fv.Options = append(fv.Options, optionView{
				Value:    o,
				Label:    displayValue(p, f, f.DisplayOption(o)),
				Selected: o == fv.Value,
			})
		}
		return fv
	}

	fv.Input = "number"
	if f.Kind == customer.KindInt && s.cfg.TenureWidget == config.WidgetSlider {
		fv.Input = "range"
	}
	fv.Min = strconv.FormatFloat(f.Min, 'f', -1, 64)
	if f.Bounded() {
		fv.Max = strconv.FormatFloat(f.Max, 'f', -1, 64)
	}
	fv.Step = strconv.FormatFloat(f.Step, 'f', -1, 64)
	return fv
}

// displayValue translates the Yes/No labels of flag fields. Every other
// value is record data and is shown as stored.
func displayValue(p *message.Printer, f customer.Field, value string) string {
	if f.Kind != customer.KindFlag {
		return value
	}
	if value == customer.SeniorLabel(1) {
		return p.Sprintf("Yes")
	}
	return p.Sprintf("No")
}

func (page *pageView) setResult(tag language.Tag, res inference.Result) {
	p := i18n.Printer(tag)
	rv := &resultView{
		Churn:   res.Label == inference.Churn,
		Verdict: p.Sprintf(res.Verdict),
	}
	if res.ConfidenceAvailable {
		rv.Confidence = p.Sprintf("Model confidence: %.1f%%", res.Confidence)
	} else {
		rv.Confidence = p.Sprintf("Confidence unavailable")
	}
	page.Result = rv
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page *pageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	logger.CountHTTPStatus(status)
	if err := pageTemplate.Execute(w, page); err != nil {
		logger.Error("failed to render page", "error", err)
	}
}
