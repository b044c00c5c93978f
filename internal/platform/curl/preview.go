// Package curl renders outbound requests as copy-pasteable curl commands for logs and spans.
package curl

import (
	"strings"

	"github.com/valyala/bytebufferpool"
)

// Preview builds a single-line curl command. Secret header values must already be masked.
func Preview(method, rawURL string, headers []string, body, note string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart(method)
	appendPart(ShellQuote(rawURL))
	for _, h := range headers {
		appendPart("-H")
		appendPart(ShellQuote(h))
	}
	if body != "" {
		appendPart("-d")
		appendPart(ShellQuote(body))
	}
	if note != "" {
		appendPart("#")
		appendPart(ShellQuote(note))
	}

	return buf.String()
}

func ShellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func Truncate(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
