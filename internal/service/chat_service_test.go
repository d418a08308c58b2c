package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustchat/internal/config"
	"trustchat/internal/domain"
	"trustchat/internal/repository"
	"trustchat/internal/search"
)

type fakeGenerator struct {
	checkErr error
	generate func(prompt string) (string, error)
	prompts  []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.generate != nil {
		return g.generate(prompt)
	}
	return "生成的回答。", nil
}

func (g *fakeGenerator) CheckRunning(ctx context.Context) error {
	return g.checkErr
}

type fakeSearcher struct {
	reachable bool
	results   string
	err       error
	queries   []string
}

func (s *fakeSearcher) Probe(ctx context.Context) bool {
	return s.reachable
}

func (s *fakeSearcher) Search(ctx context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

type fakeReviewer struct {
	verdict *domain.Verdict
	err     error
}

func (r *fakeReviewer) Review(ctx context.Context, question, answer string) (*domain.Verdict, error) {
	return r.verdict, r.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Ollama.GenerateTimeout = 5 * time.Second
	cfg.Ollama.ReviewTimeout = 5 * time.Second
	cfg.Search.Timeout = 5 * time.Second
	cfg.Review.TrustThreshold = 70
	cfg.Review.RecentYearWindow = 5
	cfg.Review.DefaultScore = 50
	return cfg
}

func testRepo(t *testing.T) *repository.SessionRepository {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewSessionRepository(db)
}

func trustedVerdict() *domain.Verdict {
	return &domain.Verdict{NeedsSearch: false, Confidence: 85, Rationale: "回答准确。"}
}

func untrustedVerdict() *domain.Verdict {
	return &domain.Verdict{NeedsSearch: true, Confidence: 40, Rationale: "回答可能过时。"}
}

func TestChatTrustedAnswer(t *testing.T) {
	repo := testRepo(t)
	gen := &fakeGenerator{generate: func(string) (string, error) {
		return "<think>推理</think>RSA基于大整数分解难题。", nil
	}}
	svc := NewChatService(testConfig(), repo, gen, &fakeReviewer{verdict: trustedVerdict()}, &fakeSearcher{}, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "什么是RSA"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "RSA基于大整数分解难题。", resp.Answer)
	assert.Equal(t, float64(85), resp.Confidence)
	assert.False(t, resp.Enhanced)
	assert.False(t, resp.Offline)

	turns, err := repo.ListTurns(resp.SessionID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.SenderUser, turns[0].Sender)
	assert.Equal(t, "什么是RSA", turns[0].Text)
	assert.Equal(t, domain.SenderAssistant, turns[1].Sender)
	assert.Equal(t, "RSA基于大整数分解难题。", turns[1].Text)
}

func TestChatEnhancedAnswer(t *testing.T) {
	repo := testRepo(t)
	gen := &fakeGenerator{generate: func(prompt string) (string, error) {
		if strings.Contains(prompt, "网络搜索结果") {
			return "根据搜索结果，今天是星期三。", nil
		}
		return "我无法获取实时日期。", nil
	}}
	searcher := &fakeSearcher{reachable: true, results: "1. 标题：日历\n   内容：今天是星期三。"}
	svc := NewChatService(testConfig(), repo, gen, &fakeReviewer{verdict: untrustedVerdict()}, searcher, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "今天星期几"})
	require.NoError(t, err)

	assert.True(t, resp.Enhanced)
	assert.Equal(t, "根据搜索结果，今天是星期三。", resp.Answer)
	assert.Equal(t, []string{"今天星期几"}, searcher.queries)
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "=== 网络搜索结果 ===")
	assert.Contains(t, gen.prompts[1], "今天是星期三。")

	turns, err := repo.ListTurns(resp.SessionID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.SenderAssistantEnhanced, turns[1].Sender)
}

func TestChatOfflineFallback(t *testing.T) {
	repo := testRepo(t)
	gen := &fakeGenerator{generate: func(string) (string, error) {
		return "我无法获取实时日期。", nil
	}}
	svc := NewChatService(testConfig(), repo, gen, &fakeReviewer{verdict: untrustedVerdict()},
		&fakeSearcher{reachable: false}, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "今天星期几"})
	require.NoError(t, err)

	assert.True(t, resp.Offline)
	assert.False(t, resp.Enhanced)
	assert.Equal(t, "我无法获取实时日期。", resp.Answer)
	assert.Equal(t, float64(40), resp.Confidence)

	turns, err := repo.ListTurns(resp.SessionID)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, domain.SenderSystem, turns[1].Sender)
	assert.Equal(t, "网络连接不可用，显示离线回答", turns[1].Text)
	assert.Equal(t, domain.SenderAssistant, turns[2].Sender)
}

func TestChatEmptySearchResults(t *testing.T) {
	repo := testRepo(t)
	svc := NewChatService(testConfig(), repo, &fakeGenerator{},
		&fakeReviewer{verdict: untrustedVerdict()},
		&fakeSearcher{reachable: true, results: ""}, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "今天星期几"})
	require.NoError(t, err)

	assert.Empty(t, resp.Answer)
	assert.Equal(t, search.NoResultsMessage(), resp.Notice)
	assert.False(t, resp.Enhanced)

	turns, err := repo.ListTurns(resp.SessionID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.SenderSystem, turns[1].Sender)
	assert.Equal(t, search.NoResultsMessage(), turns[1].Text)
}

func TestChatWindowExcludesCurrentMessage(t *testing.T) {
	repo := testRepo(t)
	gen := &fakeGenerator{}
	svc := NewChatService(testConfig(), repo, gen, &fakeReviewer{verdict: trustedVerdict()}, &fakeSearcher{}, nil)

	first, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "什么是RSA"})
	require.NoError(t, err)

	// First message has no history: the raw question is the whole prompt.
	require.Len(t, gen.prompts, 1)
	assert.Equal(t, "什么是RSA", gen.prompts[0])

	_, err = svc.Chat(context.Background(), &domain.ChatRequest{
		SessionID: first.SessionID,
		Message:   "它安全吗",
	})
	require.NoError(t, err)

	// Second prompt carries the prior round in the history block and the
	// new question only in the footer.
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "用户: 什么是RSA")
	assert.Equal(t, 1, strings.Count(gen.prompts[1], "它安全吗"))
}

func TestChatValidation(t *testing.T) {
	svc := NewChatService(testConfig(), testRepo(t), &fakeGenerator{},
		&fakeReviewer{verdict: trustedVerdict()}, &fakeSearcher{}, nil)

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.Chat(context.Background(), &domain.ChatRequest{
		SessionID: "missing",
		Message:   "你好",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatBackendUnavailable(t *testing.T) {
	svc := NewChatService(testConfig(), testRepo(t),
		&fakeGenerator{checkErr: errors.New("connection refused")},
		&fakeReviewer{verdict: trustedVerdict()}, &fakeSearcher{}, nil)

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "你好"})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestChatSessionBusy(t *testing.T) {
	repo := testRepo(t)
	session := &domain.Session{}
	require.NoError(t, repo.Create(session))

	svc := NewChatService(testConfig(), repo, &fakeGenerator{},
		&fakeReviewer{verdict: trustedVerdict()}, &fakeSearcher{}, nil)

	require.True(t, svc.acquire(session.ID))
	defer svc.release(session.ID)

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "你好",
	})
	assert.ErrorIs(t, err, domain.ErrBusy)
}

func TestChatGenerateFailureRecorded(t *testing.T) {
	repo := testRepo(t)
	gen := &fakeGenerator{generate: func(string) (string, error) {
		return "", errors.New("model not loaded")
	}}
	svc := NewChatService(testConfig(), repo, gen, &fakeReviewer{verdict: trustedVerdict()}, &fakeSearcher{}, nil)

	session := &domain.Session{}
	require.NoError(t, repo.Create(session))

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "什么是RSA",
	})
	require.Error(t, err)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageGenerate, stageErr.Stage)

	// The failure is recorded in the log as a system turn.
	turns, listErr := repo.ListTurns(session.ID)
	require.NoError(t, listErr)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.SenderSystem, turns[1].Sender)
	assert.Contains(t, turns[1].Text, "model not loaded")
}

// An error the reviewer already attributed to its stage is recorded
// as-is, without a second stage prefix.
func TestChatReviewFailureNotDoubleWrapped(t *testing.T) {
	repo := testRepo(t)
	reviewErr := domain.NewStageError(domain.StageReview, errors.New("backend down"))
	svc := NewChatService(testConfig(), repo, &fakeGenerator{},
		&fakeReviewer{err: reviewErr}, &fakeSearcher{}, nil)

	session := &domain.Session{}
	require.NoError(t, repo.Create(session))

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{
		SessionID: session.ID,
		Message:   "什么是RSA",
	})
	require.Error(t, err)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageReview, stageErr.Stage)
	assert.Equal(t, "review: backend down", stageErr.Error())

	turns, listErr := repo.ListTurns(session.ID)
	require.NoError(t, listErr)
	require.Len(t, turns, 2)
	assert.Equal(t, "review: backend down", turns[1].Text)
}

func TestChatSearchFailureRecorded(t *testing.T) {
	repo := testRepo(t)
	svc := NewChatService(testConfig(), repo, &fakeGenerator{},
		&fakeReviewer{verdict: untrustedVerdict()},
		&fakeSearcher{reachable: true, err: errors.New("bad gateway")}, nil)

	_, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "今天星期几"})
	require.Error(t, err)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageSearch, stageErr.Stage)
}

func TestHistoryAndClear(t *testing.T) {
	repo := testRepo(t)
	svc := NewChatService(testConfig(), repo, &fakeGenerator{},
		&fakeReviewer{verdict: trustedVerdict()}, &fakeSearcher{}, nil)

	resp, err := svc.Chat(context.Background(), &domain.ChatRequest{Message: "什么是RSA"})
	require.NoError(t, err)

	turns, err := svc.History(resp.SessionID)
	require.NoError(t, err)
	assert.Len(t, turns, 2)

	require.NoError(t, svc.ClearHistory(resp.SessionID))

	turns, err = svc.History(resp.SessionID)
	require.NoError(t, err)
	assert.Empty(t, turns)

	_, err = svc.History("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.ClearHistory("missing"), domain.ErrNotFound)
}
