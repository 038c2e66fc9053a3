// Package ipc implements the length-prefixed framing protocol carried over
// the privileged worker's socket pair: an 8-byte big-endian length prefix
// followed by that many bytes of UTF-8 JSON (spec.md §4.4, §6).
//
// Unlike the original implementation, any framing error is fatal: a
// malformed length prefix does not leave the reader free to resynchronize
// on the next frame, because there is no way to know where the next frame
// boundary actually starts (spec.md §4.4 step 1, §9 redesign note).
package ipc

import (
	"encoding/binary"
	"io"

	"github.com/HappyLadySauce/errors"

	"github.com/dn42/autopeerd/internal/pkg/code"
)

// lengthPrefixSize is the width, in bytes, of the frame's length prefix.
const lengthPrefixSize = 8

// ReadFrame reads one length-prefixed frame from r and returns its payload.
// Any error — short read on the prefix, short read on the payload — is
// fatal to the connection; callers must not attempt to read another frame
// afterward.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		// A clean EOF on the very first byte of the length prefix is an
		// orderly channel close (parent shutdown, front-end disconnect), not
		// a framing error — return it unwrapped so callers can tell it apart
		// from ErrUnexpectedEOF, a short read partway through the prefix,
		// which is still fatal corruption.
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.WithCode(code.ErrIPCFramingFailed, "failed to read frame length prefix: %v", err)
	}

	length := binary.BigEndian.Uint64(lenBuf[:])
	if length > maxFrameSize {
		return nil, errors.WithCode(code.ErrFrameTooLarge, "frame length %d exceeds maximum %d", length, maxFrameSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.WithCode(code.ErrIPCFramingFailed, "failed to read frame payload of %d bytes: %v", length, err)
	}

	return payload, nil
}

// WriteFrame writes payload to w prefixed with its 8-byte big-endian
// length.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [lengthPrefixSize]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(payload)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return errors.WithCode(code.ErrIPCFramingFailed, "failed to write frame length prefix: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		return errors.WithCode(code.ErrIPCFramingFailed, "failed to write frame payload: %v", err)
	}
	return nil
}

// maxFrameSize bounds a single frame's payload to defend the worker
// against a corrupted or hostile length prefix turning into an enormous
// allocation.
const maxFrameSize = 16 << 20 // 16 MiB
