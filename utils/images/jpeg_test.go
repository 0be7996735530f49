package images

import (
	"bytes"
	"testing"
)

func TestEnsureJFIFAPP0(t *testing.T) {
	// Smallest prefix the splice cares about: SOI followed by any non-APP0
	// marker.
	noApp0 := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x04}

	out, added, err := EnsureJFIFAPP0(noApp0, DpiPxPerInch, 96, 96)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Fatal("expected marker to be added")
	}
	if !bytes.Equal(out[:2], []byte{0xFF, 0xD8}) {
		t.Fatal("SOI marker not preserved")
	}
	if !bytes.Equal(out[2:4], []byte{0xFF, 0xE0}) {
		t.Fatal("APP0 marker not spliced in after SOI")
	}
	if !bytes.Equal(out[6:11], []byte("JFIF\x00")) {
		t.Fatalf("JFIF identifier missing: % X", out[6:11])
	}
	if out[13] != byte(DpiPxPerInch) {
		t.Errorf("density units = %d, want %d", out[13], DpiPxPerInch)
	}
	if !bytes.Equal(out[14:18], []byte{0x00, 0x60, 0x00, 0x60}) {
		t.Errorf("density = % X, want 96x96", out[14:18])
	}
	if !bytes.Equal(out[20:], noApp0[2:]) {
		t.Fatal("remainder of the stream must be untouched")
	}
}

func TestEnsureJFIFAPP0_AlreadyPresent(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	out, added, err := EnsureJFIFAPP0(data, DpiPxPerInch, 96, 96)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added {
		t.Fatal("marker must not be added twice")
	}
	if !bytes.Equal(out, data) {
		t.Fatal("stream with APP0 must pass through unchanged")
	}
}

func TestEnsureJFIFAPP0_Errors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"too small", []byte{0xFF, 0xD8}},
		{"not a jpeg", []byte{0x89, 0x50, 0x4E, 0x47}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := EnsureJFIFAPP0(c.data, DpiNoUnits, 0, 0); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
