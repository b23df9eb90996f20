package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/orin-ai/orin"
)

// Notifier delivers a timer alert to the host surface once it fires.
type Notifier func(label string)

// Clock sets one-shot timers. The time parameter is in milliseconds.
type Clock struct {
	notify Notifier
}

// NewClock creates a clock tool. The notifier is invoked asynchronously when
// a timer elapses; nil disables delivery but timers still arm.
func NewClock(notify Notifier) *Clock {
	return &Clock{notify: notify}
}

func (t *Clock) Spec() orin.ToolSpec {
	return orin.ToolSpec{
		Name:        "CLOCK",
		Description: "Sets system timers",
	}
}

func (t *Clock) Run(ctx context.Context, params map[string]any) (string, error) {
	if optionalString(params, "action", "") != "alarm" {
		return "", goerr.Wrap(orin.ErrInvalidParams, "invalid clock action")
	}

	ms, err := numberParam(params, "time")
	if err != nil {
		return "", err
	}
	if ms <= 0 {
		return "", goerr.Wrap(orin.ErrInvalidParams, "timer duration must be positive", goerr.V("time_ms", ms))
	}
	label := optionalString(params, "label", "Timer")

	time.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		if t.notify != nil {
			t.notify(label)
		}
	})

	return fmt.Sprintf("Timer set for %g seconds.", ms/1000), nil
}
