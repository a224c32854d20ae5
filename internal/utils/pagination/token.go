// Package pagination encodes opaque cursors for keyset-paginated listings.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const historyCursorPrefix = "ph"

// EncodeHistoryCursor creates a token that resumes a price history listing after the
// point with the given id.
func EncodeHistoryCursor(pointID int64) string {
	return EncodeMultiFieldToken(historyCursorPrefix, strconv.FormatInt(pointID, 10))
}

// DecodeHistoryCursor parses a token made by EncodeHistoryCursor back into a point id.
func DecodeHistoryCursor(token string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 || parts[0] != historyCursorPrefix {
		return 0, fmt.Errorf("invalid pagination token format (fields)")
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid pagination token format (point id)")
	}
	return id, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	return base64.URLEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
