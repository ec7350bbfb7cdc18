package feed

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrFeedUnavailable   = errors.New("feed temporarily unavailable")
	ErrInvalidQuery      = errors.New("search query is required")
	ErrInvalidCategoryID = errors.New("invalid categoryId")
)

// OracleErrorCode classifies a ranking oracle failure.
type OracleErrorCode string

const (
	CodeOverloaded  OracleErrorCode = "overloaded"
	CodeTimeout     OracleErrorCode = "timeout"
	CodeRateLimited OracleErrorCode = "rate_limited"
	CodeFatal       OracleErrorCode = "fatal"
)

// OracleError is what oracle adapters return. Code drives retry decisions,
// Message is the backend's own text.
type OracleError struct {
	Code    OracleErrorCode
	Message string
	Err     error
}

func (e *OracleError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ranking oracle %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("ranking oracle %s", e.Code)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

var transientMessage = regexp.MustCompile(`(?i)overloaded|timeout|rate\s*limit|too\s+many`)

// IsTransient reports whether a failed oracle call is worth retrying.
// Typed codes win; untyped errors are matched on their message.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var oe *OracleError
	if errors.As(err, &oe) {
		switch oe.Code {
		case CodeOverloaded, CodeTimeout, CodeRateLimited:
			return true
		}
		return transientMessage.MatchString(oe.Message)
	}

	return transientMessage.MatchString(err.Error())
}
