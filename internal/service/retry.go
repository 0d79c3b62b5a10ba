package service

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/samy1995/Mealwise/internal/logger"
)

const (
	DefaultRetries    = 3
	DefaultRetryDelay = time.Second
)

// Error codes treated as transient: schema cache drift from the REST layer,
// undefined column after a migration, and statement timeout.
var transientCodes = map[string]bool{
	"PGRST204": true,
	"42703":    true,
	"57014":    true,
}

// CodedError carries a backend error code.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string {
	return e.Code + ": " + e.Message
}

// Retrier retries transient failures with exponential backoff. The first
// call is followed by up to Retries more, waiting BaseDelay and doubling.
type Retrier struct {
	Retries   int
	BaseDelay time.Duration
	Sleep     func(ctx context.Context, d time.Duration) error
	Log       *logger.Logger
}

func NewRetrier(log *logger.Logger) *Retrier {
	return &Retrier{Retries: DefaultRetries, BaseDelay: DefaultRetryDelay, Log: log}
}

func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if r == nil {
		return fn(ctx)
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	delay := r.BaseDelay
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) || attempt >= r.Retries {
			return err
		}
		if r.Log != nil {
			r.Log.Warn("transient failure, retrying", "op", op, "attempt", attempt+1, "delay", delay, "error", err)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return err
		}
		delay *= 2
	}
}

// IsTransient reports whether err is worth retrying: network failures,
// timeouts and the codes in transientCodes.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrNotAuthenticated) || IsValidation(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var coded *CodedError
	if errors.As(err, &coded) && transientCodes[coded.Code] {
		return true
	}
	var sqlState interface{ SQLState() string }
	if errors.As(err, &sqlState) && transientCodes[sqlState.SQLState()] {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "database is locked")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
