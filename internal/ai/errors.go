package ai

import (
	"errors"
	"fmt"
	"time"
)

// Kind groups provider failures by the setting a user has to change.
type Kind string

const (
	KindCredential Kind = "credential" // key rejected or out of credit: api_key
	KindModel      Kind = "model"      // unknown model: model
	KindRateLimit  Kind = "rate_limit"
	KindRequest    Kind = "request"
	KindProvider   Kind = "provider"
)

// ProviderError is implemented by every classified provider failure.
type ProviderError interface {
	error
	Kind() Kind
}

// AuthError is a 401/403: the configured key was rejected.
type AuthError struct{ *APIError }

func (e *AuthError) Kind() Kind { return KindCredential }

func (e *AuthError) Error() string {
	return fmt.Sprintf("API key rejected (check api_key or RASFF_API_KEY): %s", e.APIError.Error())
}

// QuotaExceededError is a 402 or a billing message: the key has no credit left.
type QuotaExceededError struct{ *APIError }

func (e *QuotaExceededError) Kind() Kind { return KindCredential }

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("API key out of credit: %s", e.APIError.Error())
}

// ModelNotFoundError means the configured model does not exist at the provider.
type ModelNotFoundError struct{ *APIError }

func (e *ModelNotFoundError) Kind() Kind { return KindModel }

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model not available (check model or --model): %s", e.APIError.Error())
}

// RateLimitError is a 429 left after retries. RetryAfter is zero when the
// provider sent no hint.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Kind() Kind { return KindRateLimit }

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, ask again in about %ds: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

// BadRequestError is any other 4xx, usually a request the provider cannot
// validate (max_tokens, response_format).
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Kind() Kind { return KindRequest }

func (e *BadRequestError) Error() string { return fmt.Sprintf("request refused: %s", e.APIError.Error()) }

// ServerError is a 5xx that persisted through every retry.
type ServerError struct{ *APIError }

func (e *ServerError) Kind() Kind { return KindProvider }

func (e *ServerError) Error() string { return fmt.Sprintf("provider error: %s", e.APIError.Error()) }

// KindOf returns the kind of the first classified provider error in err's chain.
func KindOf(err error) (Kind, bool) {
	var pe ProviderError
	if errors.As(err, &pe) {
		return pe.Kind(), true
	}
	return "", false
}

// IsSettingError reports failures that no retry can fix without changing the
// configured key or model.
func IsSettingError(err error) bool {
	k, ok := KindOf(err)
	return ok && (k == KindCredential || k == KindModel)
}
