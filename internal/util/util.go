package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"antigravity2newapi/internal/core"

	"github.com/bytedance/sonic"
)

// MarshalJSON wraps Sonic for performance
func MarshalJSON(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalSortedJSON marshals with map keys sorted, for output that must be stable across runs
func MarshalSortedJSON(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}

// MarshalIndentJSON marshals with 2-space indentation
func MarshalIndentJSON(v any) ([]byte, error) {
	return sonic.MarshalIndent(v, "", "  ")
}

// GenerateID generates a prefixed unique ID (based on nanosecond timestamp)
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}

// CreateJSONRequest creates an HTTP request with a JSON body and optional bearer token
func CreateJSONRequest(ctx context.Context, method, url string, payload any, bearer string) (*http.Request, error) {
	var body io.Reader

	if payload != nil {
		payloadBytes, err := MarshalJSON(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	if bearer != "" {
		req.Header.Set(core.HeaderAuthorization, core.AuthBearerPrefix+bearer)
	}

	return req, nil
}

// TruncateString truncates string and adds replacement text in the middle
func TruncateString(s string, prefixLen, suffixLen int, replacement string) string {
	if len(s) > prefixLen+suffixLen {
		return s[:prefixLen] + replacement + s[len(s)-suffixLen:]
	}
	return s
}

// ParseEnvList parses comma-separated env var to trimmed slice
func ParseEnvList(envVar string) []string {
	if envVar == "" {
		return nil
	}
	parts := strings.Split(envVar, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetEnvWithDefault gets env var with default value
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer env var. ok is false when the variable is unset or not a number.
func GetEnvInt(key string) (value int, ok bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

// GetTokenDisplayName masks a refresh token for logging
func GetTokenDisplayName(token string) string {
	if token == "" {
		return "Token Unknown"
	}
	return TruncateString(token, 0, 6, "Token ...")
}

// GetCredentialDisplayName gets credential display name for logging
func GetCredentialDisplayName(cred core.Credential) string {
	if cred.Name != "" {
		return cred.Name
	}
	return GetTokenDisplayName(cred.Key)
}

// ReadLimitedBody reads at most core.MaxResponseBodySize bytes of a response body
func ReadLimitedBody(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, core.MaxResponseBodySize))
}
