package format

import (
	"errors"
	"testing"
)

func TestFieldSetters(t *testing.T) {
	b := make([]byte, 256)
	if err := WriteChunk(b, Chunk{Offset: 0, Size: 100, Free: true, Forward: NoChunk, Backward: NoChunk}); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}

	if err := SetSize(b, 0, 64); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if err := SetForward(b, 0, 96); err != nil {
		t.Fatalf("SetForward: %v", err)
	}
	if err := SetBackward(b, 0, 200); err != nil {
		t.Fatalf("SetBackward: %v", err)
	}

	got, err := ReadChunk(b, 0)
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	want := Chunk{Offset: 0, Size: 64, Free: true, Forward: 96, Backward: 200}
	if got != want {
		t.Fatalf("ReadChunk = %+v, want %+v", got, want)
	}

	if err := SetBackward(b, 0, NoChunk); err != nil {
		t.Fatalf("SetBackward: %v", err)
	}
	if got, _ := ReadChunk(b, 0); got.Backward != NoChunk {
		t.Fatalf("backward = %d, want NoChunk", got.Backward)
	}
}

func TestFieldSettersBounds(t *testing.T) {
	b := make([]byte, 40)
	if err := SetSize(b, 16, 1); !errors.Is(err, ErrTruncated) {
		t.Fatalf("SetSize past end: got %v, want ErrTruncated", err)
	}
	if err := SetForward(b, -1, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("SetForward negative offset: got %v, want ErrTruncated", err)
	}
	if err := SetBackward(b, 9, 0); !errors.Is(err, ErrTruncated) {
		t.Fatalf("SetBackward past end: got %v, want ErrTruncated", err)
	}
	if err := SetSize(b, 0, -5); err == nil {
		t.Fatalf("SetSize negative size: expected error")
	}
}
