// Package rewrite turns `catch (error: any)` blocks into `catch (error: unknown)`
// blocks that derive a display message from the caught value.
package rewrite

import (
	"regexp"
	"strings"
)

const (
	// ClauseAny is the exact clause text that gets rewritten.
	ClauseAny = "catch (error: any) {"
	// ClauseUnknown replaces ClauseAny.
	ClauseUnknown = "catch (error: unknown) {"
	// MessageVar is the name of the injected binding.
	MessageVar = "errorMessage"
	// Fallback is used when the caught value is not an Error.
	Fallback = "Unknown error"

	injectIndent = "      "
)

// InjectedStatement is the first statement of every rewritten block.
const InjectedStatement = "const " + MessageVar + ` = error instanceof Error ? error.message : "` + Fallback + `";`

// messageAccessRegex matches `error.message` but not `myerror.message` or
// `error.messages`.
var messageAccessRegex = regexp.MustCompile(`\berror\.message\b`)

// RewriteBlock rewrites one matched block. The block must start with ClauseAny;
// anything else is returned unchanged. Nested catch blocks in the body are
// rewritten too, each with its own binding.
func RewriteBlock(block string) string {
	out, _ := rewriteBlock(block, ModeBalanced)
	return out
}

// rewriteBlock returns the rewritten block and the number of clauses it
// rewrote, nested ones included.
func rewriteBlock(block string, mode Mode) (string, int) {
	if !strings.HasPrefix(block, ClauseAny) {
		return block, 0
	}

	body, nested := rewriteBody(block[len(ClauseAny):], mode)

	var b strings.Builder
	b.Grow(len(ClauseUnknown) + len(injectIndent) + len(InjectedStatement) + len(body) + 2)
	b.WriteString(ClauseUnknown)
	b.WriteString("\n")
	b.WriteString(injectIndent)
	b.WriteString(InjectedStatement)
	if !strings.HasPrefix(body, "\n") && !strings.HasPrefix(body, "\r\n") {
		b.WriteString("\n")
	}
	b.WriteString(body)
	return b.String(), 1 + nested
}

// rewriteBody replaces message accesses in body except inside nested catch
// blocks, which are rewritten on their own so they keep referring to their
// own caught value.
func rewriteBody(body string, mode Mode) (string, int) {
	spans := FindBlocks(body, mode)
	if len(spans) == 0 {
		return messageAccessRegex.ReplaceAllString(body, MessageVar), 0
	}

	var b strings.Builder
	count := 0
	last := 0
	for _, span := range spans {
		b.WriteString(messageAccessRegex.ReplaceAllString(body[last:span.Start], MessageVar))
		nested, n := rewriteBlock(body[span.Start:span.End], mode)
		b.WriteString(nested)
		count += n
		last = span.End
	}
	b.WriteString(messageAccessRegex.ReplaceAllString(body[last:], MessageVar))
	return b.String(), count
}

// Rewrite rewrites every block found in content and returns the new content
// along with the number of clauses rewritten.
func Rewrite(content string, mode Mode) (string, int) {
	spans := FindBlocks(content, mode)
	if len(spans) == 0 {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content) + len(spans)*(len(InjectedStatement)+16))
	count := 0
	last := 0
	for _, span := range spans {
		b.WriteString(content[last:span.Start])
		block, n := rewriteBlock(content[span.Start:span.End], mode)
		b.WriteString(block)
		count += n
		last = span.End
	}
	b.WriteString(content[last:])
	return b.String(), count
}
