package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// MsgTranslationFailed is the user-facing message for any translation failure.
// Transport detail stays in the logs.
const MsgTranslationFailed = "翻訳処理中にエラーが発生しました"

// Translator turns a Japanese diary text into an English translation with
// study notes. It holds no state between calls.
type Translator struct {
	client Completer
	task   TaskConfig
	logger *zap.Logger
}

// NewTranslator creates a translator using the translation task parameters
// from config.
func NewTranslator(config Config, client Completer, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		client: client,
		task:   config.Translation,
		logger: logger,
	}
}

// Translate translates japaneseText into English. A blank input returns ""
// without a network call; that is "nothing to do", not a failure. Any
// provider, parse, or empty-content failure is normalized into a single typed
// error carrying a user-facing Japanese message.
func (t *Translator) Translate(ctx context.Context, japaneseText string) (string, error) {
	if strings.TrimSpace(japaneseText) == "" {
		return "", nil
	}

	text, err := t.client.Complete(ctx, BuildTranslationSystemPrompt(), japaneseText, t.task)
	if err != nil {
		t.logger.Error("translation failed", zap.String("task", TaskTranslation), zap.Error(err))
		return "", WrapError(err, TaskTranslation, MsgTranslationFailed)
	}

	translation := strings.TrimSpace(text)
	if translation == "" {
		t.logger.Error("translation returned blank content", zap.String("task", TaskTranslation))
		return "", NewParseError(TaskTranslation, MsgTranslationFailed, ErrEmptyContent)
	}

	return translation, nil
}
