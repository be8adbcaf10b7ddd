package ai

import (
	"context"

	"go.uber.org/zap"
)

// MsgFeedbackFailed is the user-facing message for any feedback failure.
const MsgFeedbackFailed = "AIからのコメント生成に失敗しました"

// FeedbackGenerator produces a four-section Japanese critique of one diary
// entry. It has no awareness of persisted state: the write-once rule for a
// cached feedback lives in the service layer, and calling Generate twice
// simply generates twice.
type FeedbackGenerator struct {
	client Completer
	task   TaskConfig
	logger *zap.Logger
}

// NewFeedbackGenerator creates a feedback generator using the feedback task
// parameters from config.
func NewFeedbackGenerator(config Config, client Completer, logger *zap.Logger) *FeedbackGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackGenerator{
		client: client,
		task:   config.Feedback,
		logger: logger,
	}
}

// Generate requests feedback for the given entry title and content. There is
// no blank-input short-circuit; callers validate non-blank content before
// invoking. Failures come back as the shared typed error set.
func (g *FeedbackGenerator) Generate(ctx context.Context, title, content string) (string, error) {
	prompt := BuildFeedbackPrompt(title, content)

	text, err := g.client.Complete(ctx, g.task.SystemMessage, prompt, g.task)
	if err != nil {
		g.logger.Error("feedback generation failed", zap.String("task", TaskFeedback), zap.Error(err))
		return "", WrapError(err, TaskFeedback, MsgFeedbackFailed)
	}

	return text, nil
}
