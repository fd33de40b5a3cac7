package pagination

import (
	"encoding/base64"
	"fmt"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeDateBasedToken wraps a cursor timestamp in an opaque base64 token so
// clients carry it back verbatim without depending on its representation.
func EncodeDateBasedToken(date time.Time) string {
	return base64.StdEncoding.EncodeToString([]byte(date.Format(timeFormat)))
}

// DecodeDateBasedToken parses a token produced by EncodeDateBasedToken back
// into the cursor timestamp.
func DecodeDateBasedToken(token string) (time.Time, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	date, err := time.Parse(timeFormat, string(decodedBytes))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	return date, nil
}
