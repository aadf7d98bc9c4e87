package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	original := []byte(strings.Repeat(`{"id":"r1","artist_id":"mia","rating":5}`, 50))

	packed, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !IsCompressed(packed) {
		t.Fatal("encoded data lacks the lz4 frame header")
	}
	if len(packed) >= len(original) {
		t.Errorf("expected repetitive input to shrink, %d >= %d", len(packed), len(original))
	}

	got, err := Decode(packed)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Error("round trip changed the payload")
	}
}

func TestDecodePlainPassesThrough(t *testing.T) {
	plain := []byte(`{"artists":[]}`)
	got, err := Decode(plain)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("got %q", got)
	}
}

func TestDecodeCorruptFrame(t *testing.T) {
	bad := append(append([]byte{}, frameMagic...), []byte("garbage that is not a frame")...)
	if _, err := Decode(bad); err == nil {
		t.Fatal("expected error for corrupt frame")
	}
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("salon export\n")

	tests := []struct {
		name     string
		compress bool
	}{
		{"plain.json", false},
		{"nested/packed.json" + Ext, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := WriteFile(path, payload, tt.compress); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			raw, _ := os.ReadFile(path)
			if IsCompressed(raw) != tt.compress {
				t.Errorf("IsCompressed = %v, want %v", IsCompressed(raw), tt.compress)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("got %q", got)
			}
		})
	}
}
