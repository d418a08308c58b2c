package service

import (
	"fmt"
	"strings"

	"trustchat/internal/domain"
)

// windowSize is the number of recent turns kept as generation context:
// 10 turns, i.e. 5 question/answer rounds.
const windowSize = 10

// promptLabel renders a sender for prompt text.
func promptLabel(s domain.Sender) string {
	switch s {
	case domain.SenderUser:
		return "用户"
	case domain.SenderAssistantEnhanced:
		return "AI 助手(联网增强)"
	default:
		return "AI 助手"
	}
}

// RecentWindow selects the conversational slice of the turn log: system
// turns are dropped, then the last windowSize turns are kept in
// chronological order. The window is derived on every request and never
// stored.
func RecentWindow(turns []domain.Turn) []domain.Turn {
	filtered := make([]domain.Turn, 0, len(turns))
	for _, turn := range turns {
		if turn.Sender.IsConversational() {
			filtered = append(filtered, turn)
		}
	}
	if len(filtered) > windowSize {
		filtered = filtered[len(filtered)-windowSize:]
	}
	return filtered
}

// BuildConversationPrompt formats the recent window and the new question
// into a generation prompt. With no usable history the raw question is
// returned unmodified; the builder itself never fails.
func BuildConversationPrompt(turns []domain.Turn, question string) string {
	window := RecentWindow(turns)
	if len(window) == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString("以下是最近的对话历史，请基于这些上下文回答用户的新问题：\n\n")
	b.WriteString("=== 对话历史 ===\n")
	for _, turn := range window {
		if turn.Text == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", promptLabel(turn.Sender), turn.Text)
	}
	b.WriteString("\n=== 当前问题 ===\n")
	fmt.Fprintf(&b, "用户: %s\n\n", question)
	b.WriteString("请基于上述对话历史，给出恰当的回答：")
	return b.String()
}

// BuildEnhancedPrompt formats the window, the question and the web
// search results into the regeneration prompt. Search results are to be
// preferred while staying consistent with the prior conversation.
func BuildEnhancedPrompt(turns []domain.Turn, question, searchResults string) string {
	window := RecentWindow(turns)

	var b strings.Builder
	b.WriteString("基于以下网络搜索结果和对话历史，请回答用户的问题：\n\n")
	if len(window) > 0 {
		b.WriteString("=== 对话历史 ===\n")
		for _, turn := range window {
			if turn.Text == "" {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", promptLabel(turn.Sender), turn.Text)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "=== 当前问题 ===\n用户问题：%s\n\n", question)
	fmt.Fprintf(&b, "=== 网络搜索结果 ===\n%s\n\n", searchResults)
	b.WriteString("请基于上述搜索结果和对话历史，提供一个准确、详细且有用的回答。" +
		"如果搜索结果中包含相关信息，请优先使用这些信息。" +
		"请确保回答的准确性和可靠性，并保持与对话历史的连贯性。\n\n回答：")
	return b.String()
}
