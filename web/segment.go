package web

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/lamorinda/sportsball/models"
)

// EncodeSegment encodes a division or team name for use as a path segment.
func EncodeSegment(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

// DecodeSegment accepts both padded and unpadded URL-safe base64.
func DecodeSegment(segment string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(segment, "="))
	if err != nil {
		return "", &models.DecodeError{Segment: segment, Err: err}
	}
	if !utf8.Valid(raw) {
		return "", &models.DecodeError{Segment: segment, Err: errors.New("not valid UTF-8")}
	}
	return string(raw), nil
}
