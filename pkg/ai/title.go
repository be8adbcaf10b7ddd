package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// MsgTitleFailed is the user-facing message for any title-generation failure.
const MsgTitleFailed = "タイトルの自動生成に失敗しました"

const (
	// MaxTitleLength is the hard upper bound on a generated title, in runes.
	MaxTitleLength = 30

	// titleOmission marks a truncated title and counts toward the bound.
	titleOmission = "..."
)

// TitleGenerator produces a short English title for a diary entry. Callers
// may rely on the result never exceeding MaxTitleLength runes.
type TitleGenerator struct {
	client Completer
	task   TaskConfig
	logger *zap.Logger
}

// NewTitleGenerator creates a title generator using the title task parameters
// from config.
func NewTitleGenerator(config Config, client Completer, logger *zap.Logger) *TitleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TitleGenerator{
		client: client,
		task:   config.Title,
		logger: logger,
	}
}

// Generate produces a title for the given diary content. Internal whitespace
// runs and newlines are collapsed to single spaces, then the result is
// truncated to MaxTitleLength runes with an ellipsis marker if it was longer.
func (g *TitleGenerator) Generate(ctx context.Context, content string) (string, error) {
	prompt := BuildTitlePrompt(content)

	text, err := g.client.Complete(ctx, g.task.SystemMessage, prompt, g.task)
	if err != nil {
		g.logger.Error("title generation failed", zap.String("task", TaskTitle), zap.Error(err))
		return "", WrapError(err, TaskTitle, MsgTitleFailed)
	}

	return NormalizeTitle(text), nil
}

// NormalizeTitle collapses whitespace and enforces the length contract.
func NormalizeTitle(raw string) string {
	title := strings.Join(strings.Fields(raw), " ")
	return Truncate(title, MaxTitleLength, titleOmission)
}

// Truncate shortens s to at most length runes including the omission marker.
func Truncate(s string, length int, omission string) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	keep := length - len([]rune(omission))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + omission
}
