// Package media identifies upload files by their leading bytes.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"
)

// Kind names a recognised file format.
type Kind string

const (
	KindJPEG Kind = "jpeg"
	KindPNG  Kind = "png"
	KindGIF  Kind = "gif"
	KindWEBP Kind = "webp"
	KindPDF  Kind = "pdf"
)

// ErrUnknownType is returned when no signature matches.
var ErrUnknownType = errors.New("unknown media type")

// Result is a detected format and its MIME type.
type Result struct {
	Kind Kind
	MIME string
}

// IsImage reports whether the result is one of the image kinds.
func (r Result) IsImage() bool {
	switch r.Kind {
	case KindJPEG, KindPNG, KindGIF, KindWEBP:
		return true
	}
	return false
}

const sniffLen = 512

// Detect reads up to 512 bytes from r and classifies them. The bytes read are
// returned so the caller can stitch them back in front of the rest of r.
func Detect(r io.Reader) (Result, []byte, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Result{}, nil, err
	}
	head = head[:n]
	result, err := DetectHead(head)
	return result, head, err
}

// DetectHead classifies an already read file prefix.
func DetectHead(head []byte) (Result, error) {
	switch {
	case len(head) == 0:
		return Result{}, ErrUnknownType
	case isJPEG(head):
		return Result{Kind: KindJPEG, MIME: "image/jpeg"}, nil
	case isPNG(head):
		return Result{Kind: KindPNG, MIME: "image/png"}, nil
	case isGIF(head):
		return Result{Kind: KindGIF, MIME: "image/gif"}, nil
	case isWEBP(head):
		return Result{Kind: KindWEBP, MIME: "image/webp"}, nil
	case isPDF(head):
		return Result{Kind: KindPDF, MIME: "application/pdf"}, nil
	}
	return Result{}, ErrUnknownType
}

// DetectFile opens path and classifies its first bytes.
func DetectFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	res, _, err := Detect(f)
	return res, err
}

// Extension returns a file extension (without dot) for a Content-Type header
// value, falling back when the type is empty or unparseable.
func Extension(contentType, fallback string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		return fallback
	}
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok || sub == "" {
		return fallback
	}
	if sub == "octet-stream" {
		return fallback
	}
	if plus := strings.IndexByte(sub, '+'); plus > 0 {
		sub = sub[:plus]
	}
	return sub
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isGIF(head []byte) bool {
	return len(head) >= 6 && (bytes.Equal(head[:6], []byte("GIF87a")) || bytes.Equal(head[:6], []byte("GIF89a")))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

func isPDF(head []byte) bool {
	return bytes.HasPrefix(head, []byte("%PDF-"))
}
