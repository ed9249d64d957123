package buf

import "testing"

func TestEndianHelpers(t *testing.T) {
	data := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	if got := U32LE(data); got != 0x67452301 {
		t.Fatalf("U32LE = 0x%x, want 0x67452301", got)
	}
	if got := U64LE(data); got != 0xefcdab8967452301 {
		t.Fatalf("U64LE = 0x%x, want 0xefcdab8967452301", got)
	}

	short := []byte{0xAA}
	if U32LE(short) != 0 || U64LE(short) != 0 {
		t.Fatalf("short reads should return 0")
	}
}

func TestPutRoundTrip(t *testing.T) {
	b := make([]byte, 8)
	PutU32LE(b, 0xdeadbeef)
	if got := U32LE(b); got != 0xdeadbeef {
		t.Fatalf("U32LE after put = 0x%x", got)
	}
	PutU64LE(b, 1<<63|5)
	if got := U64LE(b); got != 1<<63|5 {
		t.Fatalf("U64LE after put = 0x%x", got)
	}

	short := []byte{0x11, 0x22}
	PutU32LE(short, 0xffffffff)
	PutU64LE(short, 0xffffffff)
	if short[0] != 0x11 || short[1] != 0x22 {
		t.Fatalf("short puts must not write: %v", short)
	}
}
