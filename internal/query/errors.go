package query

import "fmt"

// ConfigError reports an engine that cannot be built, such as a missing
// API key, or a provider that rejected the configured key or model.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return "query engine not configured: " + e.Err.Error()
	}
	return "query engine not configured: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Stages of a failed question.
const (
	StageInput   = "input"
	StageModel   = "model"
	StagePlan    = "plan"
	StageExecute = "execute"
)

// QueryError is a failure answering one question. The engine stays usable.
type QueryError struct {
	Stage string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed at %s: %v", e.Stage, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func fail(stage string, format string, args ...any) *QueryError {
	return &QueryError{Stage: stage, Err: fmt.Errorf(format, args...)}
}
