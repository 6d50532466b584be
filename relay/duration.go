////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package relay

import (
	"strconv"
	"strings"
	"time"
)

// ParseBanDuration parses "<n><unit>" with unit one of s, m, h, d, w
// (case-insensitive). Returns false for anything malformed: too short,
// non-numeric or zero count, or unknown suffix. time.ParseDuration is
// not used because it accepts the wrong grammar (fractions, no d/w
// units).
func ParseBanDuration(s string) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}

	var unit time.Duration
	switch strings.ToLower(s[len(s)-1:]) {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	default:
		return 0, false
	}

	n, err := strconv.ParseUint(s[:len(s)-1], 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}

	return time.Duration(n) * unit, true
}
