package media

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name  string
		head  []byte
		want  Kind
		image bool
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, KindJPEG, true},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, KindPNG, true},
		{"gif", []byte("GIF89a...."), KindGIF, true},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), KindWEBP, true},
		{"pdf", []byte("%PDF-1.7\n"), KindPDF, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHead(tt.head)
			if err != nil {
				t.Fatalf("DetectHead returned error: %v", err)
			}
			if got.Kind != tt.want {
				t.Fatalf("Kind = %q, want %q", got.Kind, tt.want)
			}
			if got.IsImage() != tt.image {
				t.Fatalf("IsImage = %v, want %v", got.IsImage(), tt.image)
			}
		})
	}
}

func TestDetectHead_Unknown(t *testing.T) {
	for _, head := range [][]byte{nil, []byte("hello world")} {
		if _, err := DetectHead(head); !errors.Is(err, ErrUnknownType) {
			t.Fatalf("DetectHead(%q) error = %v, want ErrUnknownType", head, err)
		}
	}
}

func TestDetect_ReturnsConsumedPrefix(t *testing.T) {
	body := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 1000)...)
	res, head, err := Detect(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if res.MIME != "application/pdf" {
		t.Fatalf("MIME = %q, want application/pdf", res.MIME)
	}
	if len(head) != sniffLen {
		t.Fatalf("len(head) = %d, want %d", len(head), sniffLen)
	}
}

func TestDetectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.bin")
	if err := os.WriteFile(path, []byte{0xff, 0xd8, 0xff, 0xdb, 0x00, 0x43}, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	res, err := DetectFile(path)
	if err != nil {
		t.Fatalf("DetectFile returned error: %v", err)
	}
	if res.Kind != KindJPEG {
		t.Fatalf("Kind = %q, want jpeg", res.Kind)
	}
	if _, err := DetectFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("DetectFile on missing file returned nil error")
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"application/pdf", "pdf"},
		{"image/png; charset=binary", "png"},
		{"image/jpeg", "jpeg"},
		{"image/svg+xml", "svg"},
		{"application/octet-stream", "pdf"},
		{"", "pdf"},
		{"garbage", "pdf"},
	}
	for _, tt := range tests {
		if got := Extension(tt.contentType, "pdf"); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
