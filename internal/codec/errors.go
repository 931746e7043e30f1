// SPDX-License-Identifier: MIT
package codec

import "errors"

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrEmptyFile           = errors.New("file is empty")
	ErrCorruptHeader       = errors.New("corrupt or truncated header")
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrDataChunkMissing    = errors.New("no data chunk found")
	ErrDecodeFailed        = errors.New("decode failed")
)
