package book

import (
	"crypto/rand"
	"fmt"
	"net/url"
	"strings"

	"bookjourney/internal/apperr"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// LabelCodeLength is the number of characters printed under a QR label.
	LabelCodeLength = 12

	// Crockford base32: no I, L, O or U, so codes survive being read aloud.
	labelAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

	DefaultLabelSize = 240
	MinLabelSize     = 128
	MaxLabelSize     = 1024
)

// LabelCode is the short code printed on a book's QR sticker. It identifies
// the copy without exposing its id.
type LabelCode string

func (c LabelCode) String() string { return string(c) }

var newLabelCode = NewLabelCode

// NewLabelCode returns a random label code.
func NewLabelCode() LabelCode {
	buf := make([]byte, LabelCodeLength)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = labelAlphabet[b&31]
	}
	return LabelCode(buf)
}

// ParseLabelCode normalizes a scanned or typed code. Lowercase input and
// surrounding space are accepted.
func ParseLabelCode(raw string) (LabelCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != LabelCodeLength {
		return "", apperr.Validation("code", apperr.ReasonInvalidLabelCode)
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(labelAlphabet, code[i]) < 0 {
			return "", apperr.Validation("code", apperr.ReasonInvalidLabelCode)
		}
	}
	return LabelCode(code), nil
}

// LabelURL is the page a printed label points at.
func LabelURL(baseURL, bookID string) string {
	return strings.TrimRight(baseURL, "/") + "/books/" + url.PathEscape(bookID)
}

// EncodeLabelPNG renders content as a square QR PNG of size pixels.
func EncodeLabelPNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr label: %w", err)
	}
	return png, nil
}
