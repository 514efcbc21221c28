// Package takeaways condenses positive and negative comments into short
// lists of key points through a chat completion model.
package takeaways

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/spacesedan/socialinsight/internal/models"
)

// MaxCommentsPerSide keeps prompts focused and fast.
const MaxCommentsPerSide = 40

const (
	positiveStart = "[POSITIVE_START]"
	positiveEnd   = "[POSITIVE_END]"
	negativeStart = "[NEGATIVE_START]"
	negativeEnd   = "[NEGATIVE_END]"
)

// Completer sends a prompt to a language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Extractor struct {
	completer Completer
}

func NewExtractor(completer Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract asks the model for takeaways of both sides in a single call.
// With no comments on either side it returns empty lists without calling
// the model.
func (e *Extractor) Extract(ctx context.Context, positive, negative []string) (models.Takeaways, error) {
	if len(positive) == 0 && len(negative) == 0 {
		return models.Takeaways{Positive: []string{}, Negative: []string{}}, nil
	}

	start := time.Now()
	reply, err := e.completer.Complete(ctx, BuildPrompt(positive, negative))
	if err != nil {
		return models.Takeaways{}, fmt.Errorf("[Takeaways] Failed to generate takeaways: %w", err)
	}

	result := ParseSections(reply)
	slog.Info("[Takeaways] Generated takeaways",
		slog.Int("positive", len(result.Positive)),
		slog.Int("negative", len(result.Negative)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func BuildPrompt(positive, negative []string) string {
	posText := bulletList(positive)
	if posText == "" {
		posText = "None"
	}
	negText := bulletList(negative)
	if negText == "" {
		negText = "None"
	}

	var b strings.Builder
	b.WriteString("Analyze these social media comments and provide insights.\n\n")
	b.WriteString("POSITIVE COMMENTS:\n")
	b.WriteString(posText)
	b.WriteString("\n\nNEGATIVE COMMENTS:\n")
	b.WriteString(negText)
	b.WriteString(`

Task:
1. For POSITIVE comments, extract 5-8 key takeaways and 2-3 actionable improvements.
2. For NEGATIVE comments, extract 5-8 key takeaways and 2-3 actionable improvements.

Format the output EXACTLY as follows:
[POSITIVE_START]
KEY TAKEAWAYS
* **Key Point**: Description
...
ACTIONABLE IMPROVEMENTS
* **Improvement**: Description
...
[POSITIVE_END]

[NEGATIVE_START]
KEY TAKEAWAYS
* **Key Point**: Description
...
ACTIONABLE IMPROVEMENTS
* **Improvement**: Description
...
[NEGATIVE_END]

Rules:
- NO preamble or intro/outro.
- Use neutral, professional language.
- Do not mention individual users.
`)
	return b.String()
}

func bulletList(comments []string) string {
	if len(comments) > MaxCommentsPerSide {
		comments = comments[:MaxCommentsPerSide]
	}
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, "- "+c)
	}
	return strings.Join(lines, "\n")
}

var (
	positiveSection = sectionPattern(positiveStart, positiveEnd)
	negativeSection = sectionPattern(negativeStart, negativeEnd)
)

func sectionPattern(start, end string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(start) + `(.*?)` + regexp.QuoteMeta(end))
}

// ParseSections reads the tagged sections of a model reply into trimmed,
// non-empty lines. A missing section yields an empty list.
func ParseSections(reply string) models.Takeaways {
	return models.Takeaways{
		Positive: sectionLines(positiveSection, reply),
		Negative: sectionLines(negativeSection, reply),
	}
}

func sectionLines(pattern *regexp.Regexp, reply string) []string {
	lines := []string{}
	match := pattern.FindStringSubmatch(reply)
	if match == nil {
		return lines
	}
	for _, line := range strings.Split(match[1], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
