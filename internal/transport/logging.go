// SPDX-License-Identifier: MIT
package transport

import "player/internal/log"

// LogTransport writes every event to the debug log. Useful when running
// without a status server but with verbose logging enabled.
type LogTransport struct{}

func NewLogTransport() *LogTransport { return &LogTransport{} }

func (LogTransport) Send(data any) error {
	log.Debugf("status: %+v", data)
	return nil
}

func (LogTransport) Close() error { return nil }

var _ Transport = LogTransport{}
