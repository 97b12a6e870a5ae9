package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/present/chart"
	"github.com/KaramelBytes/rasff-lens/internal/query"
	"github.com/KaramelBytes/rasff-lens/internal/stats"
)

// filterFields are the multi-valued query parameters accepted everywhere.
var filterFields = []dataset.Field{
	dataset.FieldGroupProd, dataset.FieldProdCat, dataset.FieldGroupHaz,
	dataset.FieldHazCat, dataset.FieldNotifyingCountry, dataset.FieldOriginCountry,
}

// filterFrom reads from, to and the field selections from the query string.
func filterFrom(c *gin.Context) (stats.Filter, error) {
	var f stats.Filter
	for _, field := range filterFields {
		var vals []string
		for _, v := range c.QueryArray(string(field)) {
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		f.Set(field, vals)
	}
	if v := c.Query("from"); v != "" {
		d, ok := dataset.ParseDate(v)
		if !ok {
			return f, fmt.Errorf("invalid from date %q", v)
		}
		f.From = d
	}
	if v := c.Query("to"); v != "" {
		d, ok := dataset.ParseDate(v)
		if !ok {
			return f, fmt.Errorf("invalid to date %q", v)
		}
		f.To = d
	}
	return f, nil
}

func (s *Server) selection(c *gin.Context) ([]dataset.Record, bool) {
	f, err := filterFrom(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return f.Apply(s.opts.Records), true
}

func (s *Server) apiStats(c *gin.Context) {
	recs, ok := s.selection(c)
	if !ok {
		return
	}
	opt := stats.ReportOptions{Analyses: c.Query("analyses") == "1"}
	for _, name := range c.QueryArray("group_by") {
		f, err := dataset.ParseField(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		opt.GroupBy = append(opt.GroupBy, f)
	}
	if n, err := strconv.Atoi(c.Query("top")); err == nil {
		opt.TopN = n
	}
	c.JSON(http.StatusOK, stats.BuildReport(s.opts.Name, recs, opt))
}

type recordsPage struct {
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
	Records []map[string]any `json:"records"`
}

func (s *Server) apiRecords(c *gin.Context) {
	recs, ok := s.selection(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	page := recordsPage{Total: len(recs), Offset: offset, Limit: limit, Records: []map[string]any{}}
	for i := offset; i < len(recs) && i < offset+limit; i++ {
		row := make(map[string]any, len(dataset.Fields))
		for _, f := range dataset.Fields {
			row[string(f)] = recs[i].Get(f)
		}
		page.Records = append(page.Records, row)
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) apiChi2(c *gin.Context) {
	recs, ok := s.selection(c)
	if !ok {
		return
	}
	row, col := c.Query("row"), c.Query("col")
	if row == "" && col == "" {
		c.JSON(http.StatusOK, stats.DefaultAnalyses(recs))
		return
	}
	rf, err := dataset.ParseField(row)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cf, err := dataset.ParseField(col)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ct := stats.NewCrosstab(recs, rf, cf)
	a := stats.Analysis{Title: fmt.Sprintf("%s vs %s", rf, cf), Crosstab: ct}
	if res, err := stats.ChiSquare(ct, 10); err != nil {
		a.Err = err.Error()
	} else {
		a.Result = res
	}
	c.JSON(http.StatusOK, []stats.Analysis{a})
}

func (s *Server) apiDrill(c *gin.Context) {
	recs, ok := s.selection(c)
	if !ok {
		return
	}
	group := c.Query("group")
	if group == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group is required"})
		return
	}
	top, err := strconv.Atoi(c.DefaultQuery("top", "10"))
	if err != nil {
		top = 10
	}
	c.JSON(http.StatusOK, stats.DrillDown(recs, group, top))
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

type askResponse struct {
	ID      string     `json:"id"`
	Kind    string     `json:"kind"`
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	SVG     string     `json:"svg,omitempty"`
	Text    string     `json:"text,omitempty"`
}

func toResponse(res query.Result) askResponse {
	switch r := res.(type) {
	case *query.TableResult:
		return askResponse{ID: r.ID, Kind: "table", Title: r.Title, Columns: r.Columns, Rows: r.Rows}
	case *query.ImageResult:
		return askResponse{ID: r.ID, Kind: "image", Title: r.Title, SVG: string(r.SVG)}
	case *query.TextResult:
		return askResponse{ID: r.ID, Kind: "text", Text: r.Text}
	}
	return askResponse{Kind: "unknown"}
}

// ask runs one question with the configured timeout and counts the outcome.
func (s *Server) ask(ctx context.Context, recs []dataset.Record, question string) (query.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()
	res, err := s.opts.Asker.Ask(ctx, recs, question)
	switch {
	case err == nil:
		s.queries.WithLabelValues("ok").Inc()
	case query.IsConfigError(err):
		s.queries.WithLabelValues("config").Inc()
	case errors.As(err, new(*query.QueryError)):
		s.queries.WithLabelValues("failed").Inc()
	default:
		s.queries.WithLabelValues("error").Inc()
	}
	return res, err
}

func (s *Server) apiAsk(c *gin.Context) {
	if s.opts.Asker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "questions are disabled (no API key configured)"})
		return
	}
	recs, ok := s.selection(c)
	if !ok {
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.ask(c.Request.Context(), recs, req.Question)
	if err != nil {
		log.Warn().Err(err).Msg("question failed")
		if query.IsConfigError(err) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

type option struct {
	Value string
	Label string
}

type fieldOptions struct {
	Field    string
	Title    string
	Options  []option
	Selected []string
}

type chartView struct {
	Title string
	SVG   template.HTML
}

// analysisView pairs a chi-square analysis with its heatmap.
type analysisView struct {
	stats.Analysis
	Heatmap template.HTML
}

type dashboardData struct {
	Name      string
	Error     string
	From, To  string
	Filters   []fieldOptions
	Key       stats.KeyStats
	Charts    []chartView
	Analyses  []analysisView
	Drill     *stats.Drill
	AskOn     bool
	Question  string
	Answer    *askResponse
	AnswerSVG template.HTML
	AskError  string
}

var filterTitles = map[dataset.Field]string{
	dataset.FieldGroupProd:        "Product group",
	dataset.FieldProdCat:          "Product category",
	dataset.FieldGroupHaz:         "Hazard group",
	dataset.FieldHazCat:           "Hazard category",
	dataset.FieldNotifyingCountry: "Notifying country",
	dataset.FieldOriginCountry:    "Origin country",
}

func (s *Server) dashboard(c *gin.Context) {
	data := dashboardData{Name: s.opts.Name, AskOn: s.opts.Asker != nil, From: c.Query("from"), To: c.Query("to")}
	for _, field := range filterFields {
		fo := fieldOptions{Field: string(field), Title: filterTitles[field], Selected: c.QueryArray(string(field))}
		for _, v := range stats.Distinct(s.opts.Records, field) {
			label := v
			if field == dataset.FieldProdCat {
				label = s.opts.ProductLabel(v)
			}
			fo.Options = append(fo.Options, option{Value: v, Label: label})
		}
		data.Filters = append(data.Filters, fo)
	}

	f, err := filterFrom(c)
	if err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusBadRequest, "dashboard.html", data)
		return
	}
	recs := f.Apply(s.opts.Records)
	data.Key = stats.Key(recs)

	products := stats.ValueCounts(recs, dataset.FieldProdCat, 10)
	for i := range products {
		products[i].Key = []string{s.opts.ProductLabel(products[i].Key[0])}
	}
	data.Charts = []chartView{
		svgView("Notifications by notifying country", chart.Bar("Notifications by notifying country", stats.ValueCounts(recs, dataset.FieldNotifyingCountry, 15))),
		svgView("Top 10 product categories", chart.Bar("Top 10 product categories", products)),
		svgView("Top 10 hazard categories", chart.Pie("Top 10 hazard categories", stats.ValueCounts(recs, dataset.FieldHazCat, 10))),
	}
	for _, a := range stats.DefaultAnalyses(recs) {
		data.Analyses = append(data.Analyses, analysisView{Analysis: a, Heatmap: template.HTML(chart.Heatmap(a.Title, a.Crosstab))})
	}
	if g := c.Query("drill"); g != "" {
		d := stats.DrillDown(recs, g, 10)
		data.Drill = &d
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" && s.opts.Asker != nil {
		data.Question = q
		res, err := s.ask(c.Request.Context(), recs, q)
		if err != nil {
			data.AskError = err.Error()
		} else {
			resp := toResponse(res)
			data.Answer = &resp
			data.AnswerSVG = template.HTML(resp.SVG)
		}
	}
	c.HTML(http.StatusOK, "dashboard.html", data)
}

// svgView marks a chart as trusted markup; chart output escapes every label.
func svgView(title string, svg []byte) chartView {
	return chartView{Title: title, SVG: template.HTML(svg)}
}

func selected(sel []string, v string) bool {
	for _, s := range sel {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
