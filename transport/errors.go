////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package transport

import (
	"errors"
	"fmt"
	"time"
)

// APIError is a structured rejection from the chat service. Description
// carries the service's machine-readable error text, which the delivery
// gateway pattern-matches for unreachable-recipient conditions.
// RetryAfter is zero unless the service supplied a rate-limit hint.
type APIError struct {
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Description)
}

// AsAPIError unwraps err to an *APIError if there is one in its chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
