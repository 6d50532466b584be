////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package relay

import (
	"time"

	jww "github.com/spf13/jwalterweatherman"

	"gitlab.com/orchid-im/supportbot/transport"
)

// Polling failures are expected transient network conditions; polling
// restarts after this delay rather than terminating the process.
const pollRestartDelay = time.Second

// Run pumps events from the poller into HandleEvent until quit closes.
// It supervises the poller: transport errors are logged and polling is
// restarted after a short delay.
func (e *Engine) Run(p transport.Poller, quit <-chan struct{}) {
	for {
		if err := p.Poll(e.HandleEvent, quit); err != nil {
			jww.WARN.Printf("%+v while polling, retrying.", err)
		}

		select {
		case <-quit:
			return
		case <-time.After(pollRestartDelay):
		}
	}
}
