package feed

import (
	"math"
	"time"
)

// Mode selects how search is served.
type Mode string

const (
	ModeBasic        Mode = "basic"
	ModePersonalized Mode = "personalized"
)

// ParseMode returns the mode named by s and whether it was recognised.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeBasic, ModePersonalized:
		return Mode(s), true
	default:
		return "", false
	}
}

type Config struct {
	CacheTTL    time.Duration
	MaxAttempts int
	BackoffBase time.Duration

	DefaultLimit int
	MaxLimit     int

	// upper bound on the trending bucket size per home feed window
	TrendingLimitCap int

	// OracleTimeout bounds the whole retry loop. FallbackTimeout is the
	// budget the plain search gets when the request deadline is already spent.
	OracleTimeout   time.Duration
	FallbackTimeout time.Duration
}

const (
	defaultCacheTTL         = 60 * time.Second
	defaultMaxAttempts      = 3
	defaultBackoffBase      = 500 * time.Millisecond
	defaultLimit            = 20
	defaultMaxLimit         = 100
	defaultTrendingLimitCap = 20
	defaultOracleTimeout    = 4 * time.Second
	defaultFallbackTimeout  = 3 * time.Second

	maxPage = math.MaxInt32
)

func DefaultConfig() Config {
	return Config{
		CacheTTL:         defaultCacheTTL,
		MaxAttempts:      defaultMaxAttempts,
		BackoffBase:      defaultBackoffBase,
		DefaultLimit:     defaultLimit,
		MaxLimit:         defaultMaxLimit,
		TrendingLimitCap: defaultTrendingLimitCap,
		OracleTimeout:    defaultOracleTimeout,
		FallbackTimeout:  defaultFallbackTimeout,
	}
}

func (c Config) normalizeLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if c.MaxLimit > 0 && limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}
