// Package fetch downloads RASFF exports: the unified dataset and the weekly
// Excel files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

// Defaults for the public RASFF sources.
const (
	DefaultMainURL      = "https://raw.githubusercontent.com/M00N69/RASFFPORTAL/main/unified_rasff_data_with_grouping.csv"
	DefaultWeekTemplate = "https://www.sirene-diffusion.fr/regia/000-rasff/{yy}/rasff-{yyyy}-{week}.xls"
	DefaultTimeout      = 30 * time.Second
)

// maxPayload caps one download. Larger bodies are rejected, never truncated.
var maxPayload int64 = 64 << 20

// WeeklyColumns maps weekly export headers to the dataset column names.
var WeeklyColumns = map[string]string{
	"Date of Case":      "date_of_case",
	"Reference":         "reference",
	"Notification From": "notification_from",
	"Country Origin":    "country_origin",
	"Product":           "product",
	"Product Category":  "product_category",
	"Hazard Substance":  "hazard_substance",
	"Hazard Category":   "hazard_category",
}

// ExpectedColumns is the column set of the unified dataset.
var ExpectedColumns = []string{
	"date_of_case", "reference", "notification_from", "country_origin",
	"product", "product_category", "hazard_substance", "hazard_category",
	"prodcat", "groupprod", "hazcat", "grouphaz",
}

// Week identifies one ISO week.
type Week struct {
	Year int
	Week int
}

func (w Week) String() string { return fmt.Sprintf("%d-W%02d", w.Year, w.Week) }

// URL expands a template holding {yy}, {yyyy} and {week} placeholders.
func (w Week) URL(template string) string {
	r := strings.NewReplacer(
		"{yy}", fmt.Sprintf("%02d", w.Year%100),
		"{yyyy}", strconv.Itoa(w.Year),
		"{week}", fmt.Sprintf("%02d", w.Week),
	)
	return r.Replace(template)
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in year.
func WeeksInYear(year int) int {
	_, w := time.Date(year, 12, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// WeekRange lists weeks from..to inclusive within one ISO year.
func WeekRange(year, from, to int) []Week {
	if from < 1 {
		from = 1
	}
	if n := WeeksInYear(year); to > n {
		to = n
	}
	var out []Week
	for w := from; w <= to; w++ {
		out = append(out, Week{Year: year, Week: w})
	}
	return out
}

// WeeksUntil lists weeks from `from` up to the week before now's ISO week.
// Past ISO years run to their last week.
func WeeksUntil(now time.Time, year, from int) []Week {
	cy, cw := now.ISOWeek()
	to := cw - 1
	if year < cy {
		to = WeeksInYear(year)
	}
	if year > cy {
		return nil
	}
	return WeekRange(year, from, to)
}

// WeekError records one failed week. It never aborts the other weeks.
type WeekError struct {
	Week   Week
	URL    string
	Status int
	Err    error
}

func (e *WeekError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("week %s: unexpected status %d from %s", e.Week, e.Status, e.URL)
	}
	return fmt.Sprintf("week %s: %v", e.Week, e.Err)
}

func (e *WeekError) Unwrap() error { return e.Err }

// StatusError reports a non-200 response.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

// Fetcher downloads files sequentially with an explicit timeout per request.
type Fetcher struct {
	client   *http.Client
	template string
	opts     dataset.Options
}

// New returns a Fetcher for the weekly template (DefaultWeekTemplate when empty).
func New(template string, timeout time.Duration) *Fetcher {
	if template == "" {
		template = DefaultWeekTemplate
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: utils.NewHTTPClient(timeout), template: template}
}

// WithClient swaps the HTTP client.
func (f *Fetcher) WithClient(c *http.Client) *Fetcher {
	f.client = c
	return f
}

// Result is the outcome of a multi-week fetch.
type Result struct {
	RunID  string
	Table  *dataset.Table
	Loaded []Week
	Failed []*WeekError
}

// FetchWeeks downloads each week in order and concatenates the successful
// ones. Failures are collected, not retried.
func (f *Fetcher) FetchWeeks(ctx context.Context, weeks []Week) *Result {
	res := &Result{RunID: uuid.NewString(), Table: &dataset.Table{Name: "weekly"}}
	logger := log.With().Str("run_id", res.RunID).Logger()
	for _, w := range weeks {
		if ctx.Err() != nil {
			res.Failed = append(res.Failed, &WeekError{Week: w, URL: w.URL(f.template), Err: ctx.Err()})
			continue
		}
		t, err := f.FetchWeek(ctx, w)
		if err != nil {
			we := &WeekError{Week: w, URL: w.URL(f.template), Err: err}
			var se *StatusError
			if errors.As(err, &se) {
				we.Status = se.Status
			}
			logger.Debug().Err(err).Str("week", w.String()).Msg("weekly download failed")
			res.Failed = append(res.Failed, we)
			continue
		}
		logger.Debug().Str("week", w.String()).Int("rows", t.Len()).Msg("weekly download ok")
		res.Table.Append(t)
		res.Loaded = append(res.Loaded, w)
	}
	EnsureColumns(res.Table, ExpectedColumns)
	return res
}

// FetchWeek downloads and decodes one weekly export, renaming its columns.
func (f *Fetcher) FetchWeek(ctx context.Context, w Week) (*dataset.Table, error) {
	url := w.URL(f.template)
	data, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	t, err := dataset.ReadBytes(fmt.Sprintf("rasff-%d-%02d.xls", w.Year, w.Week), data, f.opts)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	t.RenameColumns(WeeklyColumns)
	return t, nil
}

// FetchMain downloads the unified dataset CSV.
func (f *Fetcher) FetchMain(ctx context.Context, url string) (*dataset.Table, error) {
	if url == "" {
		url = DefaultMainURL
	}
	data, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	t, err := dataset.ReadBytes("unified.csv", data, f.opts)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return t, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: url, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > maxPayload {
		return nil, fmt.Errorf("read %s: payload exceeds %d bytes", url, maxPayload)
	}
	return data, nil
}

// EnsureColumns appends any missing column (empty values).
func EnsureColumns(t *dataset.Table, cols []string) {
	for _, c := range cols {
		if t.Col(c) < 0 {
			t.SetColumn(c, nil)
		}
	}
}
