////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package delivery wraps outbound chat-service calls with rate-limit
// retries and classification of permanent failures. It is the only retry
// point in the system; everything else logs and drops.
package delivery

import (
	"net/http"
	"strings"
	"time"

	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/orchid-im/supportbot/transport"
)

// Rate-limit hints from the service are unreliable; waits of 100 or even
// 2000 seconds have been observed, so they are clamped.
const maxRateLimitWait = 30 * time.Second

// Outcome classifies the result of one outbound operation.
type Outcome int

const (
	Success Outcome = iota
	Blocked
	Exception
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Blocked:
		return "blocked"
	case Exception:
		return "exception"
	default:
		return "unknown"
	}
}

// Error texts that mean the recipient is unreachable for good. These are
// terminal, expected conditions, not exceptions.
var blockedMarkers = []string{
	"bot was blocked by the user",
	"user is deactivated",
	"PEER_ID_INVALID",
	"bot can't initiate conversation",
}

// Gateway executes outbound operations. The zero value is not usable;
// construct with NewGateway.
type Gateway struct {
	// sleep is swapped out by tests to observe backoff waits.
	sleep func(time.Duration)
}

// NewGateway creates a Gateway.
func NewGateway() *Gateway {
	return &Gateway{sleep: time.Sleep}
}

// Execute invokes op, retrying the identical operation after a clamped
// wait for as long as the service reports a rate limit. Unreachable
// recipients yield Blocked without a retry; any other failure is logged
// and yields Exception without a retry. The call blocks the caller for
// the whole retry loop.
func (g *Gateway) Execute(op func() error) Outcome {
	for {
		err := op()
		if err == nil {
			return Success
		}

		apiErr, ok := transport.AsAPIError(err)
		if !ok {
			jww.ERROR.Printf("Unexpected error on outbound call: %+v", err)
			return Exception
		}

		if isBlocked(apiErr) {
			jww.INFO.Printf("Recipient unreachable: %s", apiErr.Description)
			return Blocked
		}

		if apiErr.Code == http.StatusTooManyRequests || apiErr.RetryAfter > 0 {
			wait := apiErr.RetryAfter
			if wait <= 0 {
				wait = time.Second
			}
			if wait > maxRateLimitWait {
				wait = maxRateLimitWait
			}
			jww.WARN.Printf("API rate limit hit, waiting %s", wait)
			g.sleep(wait)
			continue
		}

		jww.ERROR.Printf("API exception on outbound call: %+v", apiErr)
		return Exception
	}
}

func isBlocked(apiErr *transport.APIError) bool {
	for _, marker := range blockedMarkers {
		if strings.Contains(apiErr.Description, marker) {
			return true
		}
	}
	return false
}
