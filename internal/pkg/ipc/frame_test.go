package ipc

import (
	"bytes"
	"io"
	"testing"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"command":"wg_exists"}`)

	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("ReadFrame: got %q, want %q", got, payload)
	}
}

func TestReadFrameShortPrefix(t *testing.T) {
	// Only 4 of the required 8 prefix bytes present: a genuine mid-frame
	// truncation, not an orderly close, so it must not come back as a bare
	// io.EOF the way a zero-byte read does.
	r := bytes.NewReader([]byte{0, 0, 0, 0})
	_, err := ReadFrame(r)
	if err == nil {
		t.Fatal("ReadFrame: expected error for a short length prefix")
	}
	if err == io.EOF {
		t.Fatal("ReadFrame: a mid-prefix truncation must not be reported as a clean io.EOF")
	}
}

func TestReadFrameShortPayload(t *testing.T) {
	var buf bytes.Buffer
	// Claim a 100-byte payload but only write 10 bytes of it.
	if err := WriteFrame(&buf, make([]byte, 100)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	truncated := bytes.NewReader(buf.Bytes()[:8+10])

	if _, err := ReadFrame(truncated); err == nil {
		t.Fatal("ReadFrame: expected error for a truncated payload")
	}
}

func TestReadFrameOversized(t *testing.T) {
	var lenBuf [8]byte
	// Length prefix claiming far more than maxFrameSize.
	for i := range lenBuf {
		lenBuf[i] = 0xFF
	}
	r := bytes.NewReader(lenBuf[:])

	if _, err := ReadFrame(r); err == nil {
		t.Fatal("ReadFrame: expected error for an oversized frame length")
	}
}

func TestReadFrameCleanEOFIsUnwrapped(t *testing.T) {
	r := bytes.NewReader(nil)
	_, err := ReadFrame(r)
	// A clean EOF on the very first byte of the length prefix must come back
	// as the raw io.EOF, not wrapped in an errors.Coder, so callers like
	// worker.Run can tell an orderly channel close apart from a framing
	// error with a plain == io.EOF check.
	if err != io.EOF {
		t.Fatalf("ReadFrame: got %v, want io.EOF", err)
	}
}
