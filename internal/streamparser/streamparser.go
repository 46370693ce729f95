// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package streamparser decodes a newline-delimited JSON transcript emitted
// by the assistant CLI into a closed set of tagged events: text fragments
// for live capture, and rate-limit/auth terminal signals for
// classification. The parser is pure and reentrant: Parse depends only on
// its input line.
package streamparser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant an Event holds.
type Kind int

const (
	// KindOther is any line that decodes but carries no signal this parser
	// cares about (reserved tool_use/thinking shapes, and malformed lines).
	KindOther Kind = iota
	KindTextFragment
	KindRateLimit
	KindAuthError
)

// AuthErrorKind distinguishes the two auth failure shapes the parser
// recognizes.
type AuthErrorKind string

const (
	AuthTokenExpired AuthErrorKind = "token_expired"
	AuthFailed       AuthErrorKind = "authentication_failed"
)

// Event is the tagged result of parsing a single transcript line. Only
// the field matching Kind is meaningful.
type Event struct {
	Kind Kind
	At   time.Time

	Text string // KindTextFragment

	ResetTime   string // KindRateLimit — the raw matched time token, e.g. "8pm"
	WaitMinutes int    // KindRateLimit

	AuthKind AuthErrorKind // KindAuthError
}

var rateLimitRe = regexp.MustCompile(`(?i)hit your limit.{0,40}?resets\s+(\d{1,2}(?:am|pm)?)\s*\(UTC\)`)

type contentBlockDeltaLine struct {
	Event struct {
		Type  string `json:"type"`
		Delta struct {
			Text string `json:"text"`
		} `json:"delta"`
	} `json:"event"`
}

type resultLine struct {
	Type    string `json:"type"`
	IsError bool   `json:"is_error"`
	Result  string `json:"result"`
}

// Parse decodes a single transcript line into an Event. Non-object lines
// (arrays, scalars, malformed JSON) and recognized-but-uninteresting
// shapes decode to KindOther; they are never treated as an error, so the
// caller's scan loop never aborts on a bad line.
func Parse(line []byte, now time.Time) Event {
	trimmed := trimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Event{Kind: KindOther, At: now}
	}

	var cbd contentBlockDeltaLine
	if err := json.Unmarshal(trimmed, &cbd); err == nil &&
		cbd.Event.Type == "content_block_delta" && cbd.Event.Delta.Text != "" {
		return Event{Kind: KindTextFragment, At: now, Text: cbd.Event.Delta.Text}
	}

	var res resultLine
	if err := json.Unmarshal(trimmed, &res); err == nil &&
		res.Type == "result" && res.IsError && res.Result != "" {
		if ev, ok := classifyResult(res.Result, now); ok {
			return ev
		}
	}

	return Event{Kind: KindOther, At: now}
}

func classifyResult(result string, now time.Time) (Event, bool) {
	if m := rateLimitRe.FindStringSubmatch(result); m != nil {
		waitMinutes := waitMinutesUntil(m[1], now)
		return Event{
			Kind:        KindRateLimit,
			At:          now,
			ResetTime:   m[1],
			WaitMinutes: waitMinutes,
		}, true
	}
	if strings.Contains(result, "OAuth token has expired") {
		return Event{Kind: KindAuthError, At: now, AuthKind: AuthTokenExpired}, true
	}
	if strings.Contains(result, "Failed to authenticate") || strings.Contains(result, "authentication_error") {
		return Event{Kind: KindAuthError, At: now, AuthKind: AuthFailed}, true
	}
	return Event{}, false
}

// waitMinutesUntil computes minutes from now (UTC wall-clock) to the next
// occurrence of the hour named by token, wrapping to the next day if the
// hour has already passed today. The result is always in [0, 1440).
func waitMinutesUntil(token string, now time.Time) int {
	hour := parseHourToken(token)
	now = now.UTC()

	target := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !target.After(now) {
		target = target.Add(24 * time.Hour)
	}

	minutes := int(target.Sub(now).Minutes())
	if minutes < 0 {
		minutes += 1440
	}
	if minutes >= 1440 {
		minutes -= 1440
	}
	return minutes
}

// parseHourToken maps "12am"/"12pm"/"Npm"/"Nam"/bare "N" to a 24-hour
// clock hour.
func parseHourToken(token string) int {
	lower := strings.ToLower(strings.TrimSpace(token))

	meridiem := ""
	digits := lower
	if strings.HasSuffix(lower, "am") || strings.HasSuffix(lower, "pm") {
		meridiem = lower[len(lower)-2:]
		digits = lower[:len(lower)-2]
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}

	switch meridiem {
	case "am":
		if n == 12 {
			return 0
		}
		return n
	case "pm":
		if n == 12 {
			return 12
		}
		return n + 12
	default:
		return n % 24
	}
}

func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// ExtractTextFromStream concatenates the text of every TextFragment
// event produced by parsing lines in order, ignoring every other line.
func ExtractTextFromStream(lines [][]byte, now time.Time) string {
	var sb strings.Builder
	for _, line := range lines {
		ev := Parse(line, now)
		if ev.Kind == KindTextFragment {
			sb.WriteString(ev.Text)
		}
	}
	return sb.String()
}

// RateLimitMessage renders the fixed error message format used when a
// job is classified as rate_limit.
func RateLimitMessage(ev Event) string {
	return fmt.Sprintf("rate limit hit; wait %d minutes (resets at %s)", ev.WaitMinutes, ev.ResetTime)
}

// AuthErrorMessage renders the fixed error message for an auth signal.
func AuthErrorMessage(ev Event) string {
	switch ev.AuthKind {
	case AuthTokenExpired:
		return "OAuth token has expired"
	default:
		return "authentication failed"
	}
}
