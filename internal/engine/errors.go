// SPDX-License-Identifier: MIT
package engine

import "errors"

var (
	ErrNotInitialized        = errors.New("engine not initialized")
	ErrNoFileLoaded          = errors.New("no audio file loaded")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrProcessingUnavailable = errors.New("processing unavailable")
)
