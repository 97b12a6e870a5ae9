package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/rasff-lens/internal/ai"
	"github.com/KaramelBytes/rasff-lens/internal/dataset"
)

type scriptedRuntime struct {
	reply string
	err   error
	got   []ai.GenerateRequest
}

func (s *scriptedRuntime) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	s.got = append(s.got, req)
	if s.err != nil {
		return nil, s.err
	}
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: s.reply}}}}, nil
}

func records() []dataset.Record {
	mk := func(from, prodcat, hazcat, grouphaz string) dataset.Record {
		return dataset.Record{NotifyingCountry: from, ProdCat: prodcat, HazCat: hazcat, GroupHaz: grouphaz}
	}
	return []dataset.Record{
		mk("France", "Nuts and Seeds", "Mycotoxins", "Biological Hazard"),
		mk("France", "Nuts and Seeds", "Mycotoxins", "Biological Hazard"),
		mk("Italy", "Wine", "Allergens", "Biological Hazard"),
		mk("Germany", "Herbs and Spices", "Pesticide Residues", "Pesticide Hazard"),
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(&scriptedRuntime{}, Options{})
	if !IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if _, err := New(nil, Options{APIKey: "k"}); !IsConfigError(err) {
		t.Fatalf("expected ConfigError for nil runtime, got %v", err)
	}
}

func TestAskTablePlan(t *testing.T) {
	rt := &scriptedRuntime{reply: "```json\n{\"kind\":\"table\",\"group_by\":[\"hazcat\"],\"filters\":{\"grouphaz\":[\"biological hazard\"]},\"title\":\"Biological hazards\"}\n```"}
	e, err := New(rt, Options{APIKey: "k", Model: "test-model"})
	if err != nil {
		t.Fatal(err)
	}
	question := "Which biological hazards are most frequent?"
	res, err := e.Ask(context.Background(), records(), question)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	tr, ok := res.(*TableResult)
	if !ok {
		t.Fatalf("expected *TableResult, got %T", res)
	}
	if strings.Join(tr.Columns, ",") != "hazcat,count" {
		t.Fatalf("columns = %v", tr.Columns)
	}
	if len(tr.Rows) != 2 || tr.Rows[0][0] != "Mycotoxins" || tr.Rows[0][1] != "2" {
		t.Fatalf("rows = %v", tr.Rows)
	}
	if tr.ID == "" || tr.Title != "Biological hazards" {
		t.Fatalf("metadata = %+v", tr)
	}

	req := rt.got[0]
	if req.Model != "test-model" || req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
		t.Fatalf("request = %+v", req)
	}
	if req.Messages[1].Content != question {
		t.Fatalf("question not forwarded verbatim: %q", req.Messages[1].Content)
	}
	if !strings.Contains(req.Messages[0].Content, "Dataset: 4 notifications.") ||
		!strings.Contains(req.Messages[0].Content, "Mycotoxins") {
		t.Fatalf("schema missing from system prompt:\n%s", req.Messages[0].Content)
	}
}

func TestAskChartAndCount(t *testing.T) {
	rt := &scriptedRuntime{reply: `Here is the plan: {"kind":"chart","group_by":["notifying_country"],"chart":"pie"}`}
	e, _ := New(rt, Options{APIKey: "k"})
	res, err := e.Ask(context.Background(), records(), "plot notifications per country")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	img, ok := res.(*ImageResult)
	if !ok {
		t.Fatalf("expected *ImageResult, got %T", res)
	}
	if !strings.HasPrefix(string(img.SVG), "<svg") || !strings.Contains(string(img.SVG), "France: 2 (50.0%)") {
		t.Fatalf("svg = %s", img.SVG)
	}
	if img.Title != "Notifications by notifying_country" {
		t.Fatalf("title = %q", img.Title)
	}

	rt.reply = `{"kind":"count","filters":{"notifying_country":["france"]}}`
	res, err = e.Ask(context.Background(), records(), "how many from France?")
	if err != nil {
		t.Fatal(err)
	}
	if txt, ok := res.(*TextResult); !ok || txt.Text != "2 notifications" {
		t.Fatalf("count result = %#v", res)
	}
}

func TestAskFailuresAreQueryErrors(t *testing.T) {
	cases := []struct {
		name  string
		rt    *scriptedRuntime
		q     string
		stage string
	}{
		{"empty question", &scriptedRuntime{}, "  ", StageInput},
		{"runtime error", &scriptedRuntime{err: errors.New("boom")}, "q", StageModel},
		{"empty reply", &scriptedRuntime{reply: ""}, "q", StageModel},
		{"not json", &scriptedRuntime{reply: "I cannot help"}, "q", StagePlan},
		{"bad kind", &scriptedRuntime{reply: `{"kind":"map"}`}, "q", StagePlan},
		{"bad column", &scriptedRuntime{reply: `{"kind":"table","group_by":["colour"]}`}, "q", StageExecute},
		{"unfilterable", &scriptedRuntime{reply: `{"kind":"count","filters":{"product":["nuts"]}}`}, "q", StageExecute},
		{"chart no rows", &scriptedRuntime{reply: `{"kind":"chart","group_by":["hazcat"],"filters":{"hazcat":["none"]}}`}, "q", StageExecute},
	}
	for _, c := range cases {
		e, _ := New(c.rt, Options{APIKey: "k"})
		_, err := e.Ask(context.Background(), records(), c.q)
		var qe *QueryError
		if !errors.As(err, &qe) {
			t.Fatalf("%s: expected QueryError, got %v", c.name, err)
		}
		if qe.Stage != c.stage {
			t.Fatalf("%s: stage = %s, want %s (%v)", c.name, qe.Stage, c.stage, err)
		}
	}
}

func TestAskRejectedKeyIsConfigError(t *testing.T) {
	for _, rtErr := range []error{
		&ai.AuthError{APIError: &ai.APIError{StatusCode: 401, Message: "invalid key"}},
		&ai.QuotaExceededError{APIError: &ai.APIError{StatusCode: 402, Message: "no credits"}},
		&ai.ModelNotFoundError{APIError: &ai.APIError{StatusCode: 404, Message: "no such model"}},
	} {
		e, err := New(&scriptedRuntime{err: rtErr}, Options{APIKey: "k"})
		if err != nil {
			t.Fatal(err)
		}
		_, err = e.Ask(context.Background(), records(), "How many?")
		if !IsConfigError(err) {
			t.Fatalf("%T: expected ConfigError, got %v", rtErr, err)
		}
		if !errors.Is(err, rtErr) {
			t.Fatalf("%T: provider error not wrapped: %v", rtErr, err)
		}
	}
	e, err := New(&scriptedRuntime{err: &ai.ServerError{APIError: &ai.APIError{StatusCode: 503}}}, Options{APIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Ask(context.Background(), records(), "How many?")
	if IsConfigError(err) {
		t.Fatalf("server failure reported as config error: %v", err)
	}
}

func TestExecuteRecordTable(t *testing.T) {
	res, err := Execute(&Plan{Kind: KindTable, Limit: 3}, records())
	if err != nil {
		t.Fatal(err)
	}
	tr := res.(*TableResult)
	if len(tr.Rows) != 3 || len(tr.Columns) != len(recordColumns) {
		t.Fatalf("table = %+v", tr)
	}
	res, err = Execute(&Plan{Kind: KindText, Answer: " RASFF is the EU alert system. "}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.(*TextResult).Text != "RASFF is the EU alert system." {
		t.Fatalf("text = %q", res.(*TextResult).Text)
	}
}
