package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/rasff-lens/internal/ai"
	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/stats"
	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

// Options configure an Engine.
type Options struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	// SchemaTokens caps the dataset description sent with each question.
	SchemaTokens int
}

// Engine forwards questions to a Runtime and executes the returned plans.
type Engine struct {
	rt   ai.Runtime
	opts Options
}

// New validates the configuration up front so a missing credential is
// reported before any question is asked.
func New(rt ai.Runtime, opts Options) (*Engine, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &ConfigError{Msg: "no API key (set RASFF_API_KEY or OPENROUTER_API_KEY, or api_key in ~/.rasff/config.yaml)"}
	}
	if rt == nil {
		return nil, &ConfigError{Msg: "no LLM runtime"}
	}
	if opts.Model == "" {
		opts.Model = ai.DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	if opts.SchemaTokens <= 0 {
		opts.SchemaTokens = 1500
	}
	return &Engine{rt: rt, opts: opts}, nil
}

// Ask answers question over recs. The question is forwarded verbatim. A
// rejected key or unknown model comes back as *ConfigError, any other failure
// as *QueryError.
func (e *Engine) Ask(ctx context.Context, recs []dataset.Record, question string) (Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fail(StageInput, "empty question")
	}
	schema := utils.TruncateToTokenLimit(Schema(recs), e.opts.SchemaTokens)
	log.Debug().Int("schema_tokens", utils.CountTokens(schema)).Int("records", len(recs)).Msg("asking model")

	resp, err := e.rt.Generate(ctx, ai.GenerateRequest{
		Model: e.opts.Model,
		Messages: []ai.Message{
			{Role: "system", Content: systemPrompt + "\n\n" + schema},
			{Role: "user", Content: question},
		},
		MaxTokens:      e.opts.MaxTokens,
		Temperature:    e.opts.Temperature,
		ResponseFormat: &ai.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		if ai.IsSettingError(err) {
			return nil, &ConfigError{Msg: "provider rejected the configured key or model", Err: err}
		}
		return nil, &QueryError{Stage: StageModel, Err: err}
	}
	reply := resp.Text()
	if reply == "" {
		return nil, fail(StageModel, "empty reply")
	}
	plan, err := ParsePlan(reply)
	if err != nil {
		return nil, &QueryError{Stage: StagePlan, Err: err}
	}
	log.Debug().Str("kind", plan.Kind).Strs("group_by", plan.GroupBy).Msg("plan parsed")
	return Execute(plan, recs)
}

// IsConfigError reports whether err is a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

const systemPrompt = `You answer questions about RASFF food and feed safety notifications.
Reply with one JSON object and nothing else:
{"kind": "table" | "chart" | "text" | "count",
 "group_by": [column, ...],
 "filters": {column: [value, ...]},
 "from": "YYYY-MM-DD", "to": "YYYY-MM-DD",
 "limit": number,
 "chart": "bar" | "pie",
 "title": string,
 "answer": string}
Use "count" for how-many questions, "table" for listings or rankings, "chart"
when a plot is requested (group_by required), and "text" with "answer" only
when the question cannot be answered from the columns. Filters may use
prodcat, groupprod, hazcat, grouphaz, notifying_country and origin_country;
values must be spelled as in the dataset description. Omit unused keys.`

// Schema describes recs for the model: columns, size, date span and the most
// frequent values of each categorical column.
func Schema(recs []dataset.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %d notifications.\n", len(recs))
	if lo, hi, ok := stats.DateSpan(recs); ok {
		fmt.Fprintf(&b, "Dates: %s to %s.\n", lo.Format("2006-01-02"), hi.Format("2006-01-02"))
	}
	names := make([]string, len(dataset.Fields))
	for i, f := range dataset.Fields {
		names[i] = string(f)
	}
	fmt.Fprintf(&b, "Columns: %s.\n", strings.Join(names, ", "))
	for _, f := range []dataset.Field{
		dataset.FieldGroupProd, dataset.FieldProdCat, dataset.FieldGroupHaz,
		dataset.FieldHazCat, dataset.FieldNotifyingCountry, dataset.FieldOriginCountry,
	} {
		top := stats.ValueCounts(recs, f, 25)
		if len(top) == 0 {
			continue
		}
		vals := make([]string, 0, len(top))
		for _, g := range top {
			if g.Key[0] != "" {
				vals = append(vals, g.Key[0])
			}
		}
		fmt.Fprintf(&b, "%s values: %s\n", f, strings.Join(vals, "; "))
	}
	return b.String()
}
