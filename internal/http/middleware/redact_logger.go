// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger used in production
// deployments. Customer emails and phone numbers travel through this API
// (registration, payment init), the WebSocket bearer token rides in a query
// string, and webhook requests carry an HMAC signature header, so the
// production logger scrubs all of those before a line is emitted.
//
// Behavior:
//   - Never logs request or response bodies.
//   - Regex-scrubs emails, phone numbers, and UUID-like identifiers from
//     query strings and header values.
//   - Fully masks credential headers (Authorization, Cookie, Set-Cookie,
//     X-Paystack-Signature, plus any extras) and credential query parameters
//     (token, plus any extras).
//   - Logs at INFO, WARN for 4xx, ERROR for 5xx, same as Logger().
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions adds extra scrub targets to RedactingLogger. Header and
// parameter names match case-insensitively and merge with the built-ins.
type RedactOptions struct {
	MaskHeaders []string
	MaskParams  []string
}

// UUIDs are scrubbed before phone numbers so the phone pattern cannot latch
// onto the digit/hyphen runs inside an id.
var (
	redactUUIDRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	redactEmailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	redactPhoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

func redactValue(s string) string {
	if s == "" {
		return s
	}
	out := redactUUIDRE.ReplaceAllString(s, "[REDACTED:id]")
	out = redactEmailRE.ReplaceAllString(out, "[REDACTED:email]")
	return redactPhoneRE.ReplaceAllString(out, "[REDACTED:phone]")
}

// redactQuery masks the values of credential parameters outright and scrubs
// the rest. The original parameter order is not preserved.
func redactQuery(rawQuery string, maskParams map[string]struct{}) string {
	if rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Unparseable query: scrub the whole string rather than drop it.
		return redactValue(rawQuery)
	}
	out := url.Values{}
	for k, vv := range values {
		if _, ok := maskParams[strings.ToLower(k)]; ok {
			out.Set(k, "[REDACTED]")
			continue
		}
		for _, v := range vv {
			out.Add(k, redactValue(v))
		}
	}
	return out.Encode()
}

// RedactingLogger returns the PII-scrubbing access logger. It replaces
// Logger() when LOG_REDACT is set; the two are never composed together.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization":        {},
		"cookie":               {},
		"set-cookie":           {},
		"x-paystack-signature": {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}
	maskParams := map[string]struct{}{
		"token": {},
	}
	for _, p := range opts.MaskParams {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			maskParams[p] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := redactQuery(c.Request.URL.RawQuery, maskParams)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redactValue(strings.Join(vv, ", "))
		}

		c.Next()

		rid, _ := c.Get(requestIDKey)
		uid, _ := c.Get(CtxUserID)
		role, _ := c.Get(CtxUserRole)
		status := c.Writer.Status()

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Str("user_id", asString(uid)).
			Str("role", asString(role)).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("request")
	}
}
