package ai

import (
	"fmt"
	"strings"
)

// Prompt construction for the three AI tasks. All builders are pure string
// functions: deterministic, no I/O, no randomness. The "# "-prefixed section
// headings are literal and position-significant; the frontend splits the
// completion text on them.

// TranslationSectionHeadings are the three headings a translation completion
// is instructed to emit, in order.
var TranslationSectionHeadings = []string{
	"# 翻訳後の文章",
	"# Key Points",
	"# Vocabulary",
}

// FeedbackSectionHeadings are the four headings a feedback completion is
// instructed to emit, in order.
var FeedbackSectionHeadings = []string{
	"# 英文アドバイス",
	"# 修正後の文章",
	"# より良い表現",
	"# コメント",
}

// BuildTranslationSystemPrompt renders the system message for the translation
// task. The diary text itself goes into the user message untouched.
func BuildTranslationSystemPrompt() string {
	return `You are a professional translator specialized in translating Japanese to natural, fluent English.

Guidelines:
- Translate the Japanese text into natural, conversational English
- Maintain the tone and style of the original text
- Use appropriate vocabulary and grammar for diary/journal entries
- Keep the translation clear and easy to read

必ず下記のフォーマットで回答してください：

# 翻訳後の文章
[ここに英訳した文章のみを記載]

# Key Points
[どのような熟語や表現方法を使って翻訳したか、ポイントを日本語で箇条書き。例：keep up :ついていく、getting rusty :なまってきた）など]

# Vocabulary
[難しい単語や重要な表現を日本語で説明。例：「充実した」→ fulfilling - 満足感のある、やりがいのある]

注意：各セクションは必ず「# 」で始めてください。翻訳後の文章セクションには英語のみ、それ以外は日本語で説明してください。

Translate the following Japanese text to English:`
}

// BuildFeedbackPrompt embeds the diary title and content into the feedback
// instruction template. Content length is the caller's responsibility; entry
// content is already bounded upstream.
func BuildFeedbackPrompt(title, content string) string {
	var b strings.Builder
	b.WriteString("あなたは共感的で肯定的な英語の先生です。以下は英語学習中ユーザーの日記です。\n\n")
	b.WriteString("【今日の日記】\n")
	fmt.Fprintf(&b, "タイトル: %s\n", title)
	b.WriteString("本文:\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString("#下記フォーマットで日本語で回答して下さい。ユーザーの気持ちや状況を汲み取り、短い励ましや洞察、次の一歩の提案を日本語で返してください。断定しすぎず、優しく、読みやすく。\n")
	b.WriteString("        # 英文アドバイス（英語の誤りがなければ褒めてください。英語の誤りがあれば日本語で教えて下さい（修正点があればどこが修正点か、なぜ修正が必要か。修正点ごとに箇条書きで回答してください。））\n")
	b.WriteString("        # 修正後の文章（英語の誤りがなければ「このままでOKです！」と返してください。英語の誤りがあれば修正後の文章を送ります。）\n")
	b.WriteString("        # より良い表現（よりネイティブが使う表現に書き換えることができれば送ります。）\n")
	b.WriteString("        # コメント (英文についてではなく日記の内容についてコメントして下さい。必ずポジティブな表現を使って下さい)\n")
	return b.String()
}

// BuildTitlePrompt embeds the diary content into the title-generation
// template. The instruction demands a title of at most 30 characters and
// nothing else in the reply.
func BuildTitlePrompt(content string) string {
	var b strings.Builder
	b.WriteString("あなたは日記のタイトル生成アシスタントです。以下の日記の内容から、簡潔で適切なタイトルを生成してください。\n\n")
	b.WriteString("【日記の内容】\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString("上記の日記内容から、30文字以内の簡潔で内容を表す英語のタイトルを生成してください。\n")
	b.WriteString("タイトルのみを返答し、余計な説明は不要です。\n")
	return b.String()
}
