package ledger

import (
	"encoding/base64"
	"encoding/json"

	"bookjourney/internal/apperr"
)

// CursorData represents the data encoded in a cursor
type CursorData struct {
	AfterSeq int64 `json:"after_seq,omitempty"`
}

// EncodeCursor encodes cursor data to a base64 string
func EncodeCursor(data CursorData) string {
	if data.AfterSeq <= 0 {
		return ""
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to CursorData
func DecodeCursor(cursor string) (CursorData, error) {
	if cursor == "" {
		return CursorData{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return CursorData{}, apperr.Validation("cursor", "invalid cursor")
	}

	var data CursorData
	if err := json.Unmarshal(decoded, &data); err != nil || data.AfterSeq < 0 {
		return CursorData{}, apperr.Validation("cursor", "invalid cursor")
	}
	return data, nil
}
