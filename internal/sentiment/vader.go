package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/socialinsight/internal/models"
)

const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
)

// CommentClassifier labels raw comment texts.
type CommentClassifier interface {
	ClassifyComments(ctx context.Context, comments []string) ([]models.ClassifiedComment, error)
}

func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1") // keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.UseXHTML,
		})))
	plainText := html.UnescapeString(htmlTagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(plainText), " ")
}

// VaderClassifier scores comments locally with the VADER lexicon.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Classify returns the compound score of text and its label.
func (v *VaderClassifier) Classify(text string) (float64, models.SentimentLabel) {
	score := v.analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound

	switch {
	case score >= positiveThreshold:
		return score, models.LabelPositive
	case score <= negativeThreshold:
		return score, models.LabelNegative
	default:
		return score, models.LabelNeutral
	}
}

func (v *VaderClassifier) ClassifyComments(ctx context.Context, comments []string) ([]models.ClassifiedComment, error) {
	rows := make([]models.ClassifiedComment, 0, len(comments))
	for _, comment := range comments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, label := v.Classify(comment)
		rows = append(rows, models.ClassifiedComment{
			Comment:   comment,
			Sentiment: string(label),
		})
	}
	return rows, nil
}
