// SPDX-License-Identifier: MIT
package bridge

import (
	"bytes"
	"math"
	"testing"
)

func TestBytesToFloat16(t *testing.T) {
	// -32768, -1, 0, 32767 as little-endian int16.
	data := []byte{0x00, 0x80, 0xFF, 0xFF, 0x00, 0x00, 0xFF, 0x7F}
	got, err := BytesToFloat(data, 16)
	if err != nil {
		t.Fatalf("BytesToFloat: %v", err)
	}
	want := []float32{-1.0, -1.0 / 32768.0, 0, 32767.0 / 32768.0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-7 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBytesToFloat8Unsigned(t *testing.T) {
	got, err := BytesToFloat([]byte{0, 128, 255}, 8)
	if err != nil {
		t.Fatalf("BytesToFloat: %v", err)
	}
	want := []float32{-1.0, 0, 127.0 / 128.0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-7 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFloatToBytesClampsAtFullScale(t *testing.T) {
	out, err := FloatToBytes([]float32{1.0, 1.5, -1.0, -2.0}, 16)
	if err != nil {
		t.Fatalf("FloatToBytes: %v", err)
	}
	// +1.0 and anything above map to 32767, not a wrapped value.
	want := []byte{0xFF, 0x7F, 0xFF, 0x7F, 0x01, 0x80, 0x01, 0x80}
	if !bytes.Equal(out, want) {
		t.Errorf("packed = %x, want %x", out, want)
	}
}

func TestFloatRoundTrip16(t *testing.T) {
	src := make([]byte, 512)
	for i := range src {
		src[i] = byte(i * 7)
	}
	f, err := BytesToFloat(src, 16)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FloatToBytes(f, 16)
	if err != nil {
		t.Fatal(err)
	}
	// The in/out scales differ by one LSB step at most.
	for i := 0; i < len(src); i += 2 {
		orig := int16(uint16(src[i]) | uint16(src[i+1])<<8)
		got := int16(uint16(back[i]) | uint16(back[i+1])<<8)
		if d := int(orig) - int(got); d < -1 || d > 1 {
			t.Fatalf("sample %d drifted: %d -> %d", i/2, orig, got)
		}
	}
}

func TestBytesToFloat24SignExtension(t *testing.T) {
	// 0x800000 is the most negative 24-bit value.
	got, err := BytesToFloat([]byte{0x00, 0x00, 0x80, 0xFF, 0xFF, 0x7F}, 24)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != -1.0 {
		t.Errorf("min sample = %v, want -1.0", got[0])
	}
	if math.Abs(float64(got[1])-8388607.0/8388608.0) > 1e-7 {
		t.Errorf("max sample = %v", got[1])
	}
}

func TestUnsupportedDepths(t *testing.T) {
	if _, err := BytesToFloat(make([]byte, 4), 12); err == nil {
		t.Error("expected error for 12-bit unpack")
	}
	if _, err := FloatToBytes(make([]float32, 4), 32); err == nil {
		t.Error("expected error for 32-bit pack")
	}
}
