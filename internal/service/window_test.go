package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"trustchat/internal/domain"
)

func TestBuildConversationPromptEmptyHistory(t *testing.T) {
	question := "什么是量子计算"

	assert.Equal(t, question, BuildConversationPrompt(nil, question))
	assert.Equal(t, question, BuildConversationPrompt([]domain.Turn{}, question))
}

func TestBuildConversationPromptSystemTurnsDropped(t *testing.T) {
	turns := []domain.Turn{
		{Sender: domain.SenderSystem, Text: "网络连接不可用，显示离线回答"},
		{Sender: domain.SenderSystem, Text: "搜索未找到相关结果"},
	}

	// A log of nothing but system turns counts as no usable history.
	question := "什么是量子计算"
	assert.Equal(t, question, BuildConversationPrompt(turns, question))
}

func TestBuildConversationPromptFraming(t *testing.T) {
	turns := []domain.Turn{
		{Sender: domain.SenderUser, Text: "什么是RSA"},
		{Sender: domain.SenderAssistant, Text: "RSA是一种非对称加密算法。"},
		{Sender: domain.SenderSystem, Text: "网络连接不可用，显示离线回答"},
		{Sender: domain.SenderAssistantEnhanced, Text: "根据最新资料，RSA仍被广泛使用。"},
	}

	prompt := BuildConversationPrompt(turns, "它安全吗")

	assert.Contains(t, prompt, "=== 对话历史 ===")
	assert.Contains(t, prompt, "用户: 什么是RSA")
	assert.Contains(t, prompt, "AI 助手: RSA是一种非对称加密算法。")
	assert.Contains(t, prompt, "AI 助手(联网增强): 根据最新资料，RSA仍被广泛使用。")
	assert.Contains(t, prompt, "=== 当前问题 ===")
	assert.Contains(t, prompt, "用户: 它安全吗")
	assert.NotContains(t, prompt, "网络连接不可用")
}

func TestRecentWindowKeepsLastTen(t *testing.T) {
	var turns []domain.Turn
	for i := 0; i < 14; i++ {
		sender := domain.SenderUser
		if i%2 == 1 {
			sender = domain.SenderAssistant
		}
		turns = append(turns, domain.Turn{Sender: sender, Text: fmt.Sprintf("回合%d", i)})
	}

	window := RecentWindow(turns)

	assert.Len(t, window, 10)
	assert.Equal(t, "回合4", window[0].Text)
	assert.Equal(t, "回合13", window[9].Text)
}

func TestRecentWindowCountsConversationalTurnsOnly(t *testing.T) {
	var turns []domain.Turn
	for i := 0; i < 12; i++ {
		turns = append(turns, domain.Turn{Sender: domain.SenderUser, Text: fmt.Sprintf("回合%d", i)})
		turns = append(turns, domain.Turn{Sender: domain.SenderSystem, Text: "阶段失败"})
	}

	window := RecentWindow(turns)

	assert.Len(t, window, 10)
	for _, turn := range window {
		assert.Equal(t, domain.SenderUser, turn.Sender)
	}
	assert.Equal(t, "回合2", window[0].Text)
}

func TestBuildEnhancedPrompt(t *testing.T) {
	turns := []domain.Turn{
		{Sender: domain.SenderUser, Text: "什么是RSA"},
		{Sender: domain.SenderAssistant, Text: "RSA是一种非对称加密算法。"},
	}

	prompt := BuildEnhancedPrompt(turns, "RSA-2048还安全吗", "1. 标题：密钥长度建议\n   内容：……")

	assert.Contains(t, prompt, "=== 对话历史 ===")
	assert.Contains(t, prompt, "用户问题：RSA-2048还安全吗")
	assert.Contains(t, prompt, "=== 网络搜索结果 ===")
	assert.Contains(t, prompt, "密钥长度建议")
	assert.Contains(t, prompt, "回答：")
}

func TestBuildEnhancedPromptWithoutHistory(t *testing.T) {
	prompt := BuildEnhancedPrompt(nil, "今天星期几", "1. 标题：日历\n   内容：……")

	assert.NotContains(t, prompt, "=== 对话历史 ===")
	assert.Contains(t, prompt, "用户问题：今天星期几")
	assert.Contains(t, prompt, "=== 网络搜索结果 ===")
}
