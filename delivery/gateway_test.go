////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package delivery

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"gitlab.com/orchid-im/supportbot/transport"
)

// newTestGateway returns a gateway whose sleeps are recorded instead of
// performed.
func newTestGateway() (*Gateway, *[]time.Duration) {
	slept := &[]time.Duration{}
	g := NewGateway()
	g.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return g, slept
}

// Happy path: a successful operation runs exactly once.
func TestGateway_Execute_Success(t *testing.T) {
	g, slept := newTestGateway()

	calls := 0
	outcome := g.Execute(func() error {
		calls++
		return nil
	})

	if outcome != Success {
		t.Errorf("Execute() returned the wrong outcome."+
			"\nexpected: %s\nreceived: %s", Success, outcome)
	}
	if calls != 1 {
		t.Errorf("Execute() ran the operation %d times, expected 1", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("Execute() slept on success: %v", *slept)
	}
}

// A rate limit with an excessive server hint retries the identical
// operation after a wait clamped to 30 seconds.
func TestGateway_Execute_RateLimitClamp(t *testing.T) {
	g, slept := newTestGateway()

	calls := 0
	outcome := g.Execute(func() error {
		calls++
		if calls == 1 {
			return &transport.APIError{
				Code:        429,
				Description: "Too Many Requests: retry later",
				RetryAfter:  500 * time.Second,
			}
		}
		return nil
	})

	if outcome != Success {
		t.Errorf("Execute() returned the wrong outcome."+
			"\nexpected: %s\nreceived: %s", Success, outcome)
	}
	if calls != 2 {
		t.Errorf("Execute() ran the operation %d times, expected 2", calls)
	}
	if len(*slept) != 1 || (*slept)[0] != maxRateLimitWait {
		t.Errorf("Execute() did not clamp the rate-limit wait."+
			"\nexpected: [%s]\nreceived: %v", maxRateLimitWait, *slept)
	}
}

// A rate limit without a usable hint still waits before retrying.
func TestGateway_Execute_RateLimitNoHint(t *testing.T) {
	g, slept := newTestGateway()

	calls := 0
	g.Execute(func() error {
		calls++
		if calls == 1 {
			return &transport.APIError{Code: 429, Description: "Too Many Requests"}
		}
		return nil
	})

	if len(*slept) != 1 || (*slept)[0] != time.Second {
		t.Errorf("Execute() waited the wrong time without a hint."+
			"\nexpected: [%s]\nreceived: %v", time.Second, *slept)
	}
}

// Unreachable recipients are terminal: no retry, no sleep.
func TestGateway_Execute_Blocked(t *testing.T) {
	descriptions := []string{
		"Forbidden: bot was blocked by the user",
		"Forbidden: user is deactivated",
		"Bad Request: PEER_ID_INVALID",
		"Forbidden: bot can't initiate conversation with a user",
	}

	for _, desc := range descriptions {
		g, slept := newTestGateway()

		calls := 0
		outcome := g.Execute(func() error {
			calls++
			return &transport.APIError{Code: 403, Description: desc}
		})

		if outcome != Blocked {
			t.Errorf("Execute() returned the wrong outcome for %q."+
				"\nexpected: %s\nreceived: %s", desc, Blocked, outcome)
		}
		if calls != 1 {
			t.Errorf("Execute() retried a blocked recipient (%d calls)", calls)
		}
		if len(*slept) != 0 {
			t.Errorf("Execute() slept on a blocked recipient: %v", *slept)
		}
	}
}

// Any other API error is an exception: logged, not retried.
func TestGateway_Execute_Exception(t *testing.T) {
	g, slept := newTestGateway()

	calls := 0
	outcome := g.Execute(func() error {
		calls++
		return &transport.APIError{Code: 400, Description: "Bad Request: message is too long"}
	})

	if outcome != Exception {
		t.Errorf("Execute() returned the wrong outcome."+
			"\nexpected: %s\nreceived: %s", Exception, outcome)
	}
	if calls != 1 || len(*slept) != 0 {
		t.Errorf("Execute() retried an exception (%d calls, slept %v)",
			calls, *slept)
	}
}

// Errors that are not APIErrors at all are exceptions too.
func TestGateway_Execute_PlainError(t *testing.T) {
	g, _ := newTestGateway()

	outcome := g.Execute(func() error {
		return errors.New("connection reset by peer")
	})

	if outcome != Exception {
		t.Errorf("Execute() returned the wrong outcome."+
			"\nexpected: %s\nreceived: %s", Exception, outcome)
	}
}
