package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"trustchat/internal/config"
	"trustchat/internal/domain"
	"trustchat/internal/repository"
	"trustchat/internal/search"
)

// Generator is the generation backend contract.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	CheckRunning(ctx context.Context) error
}

// Searcher is the external search provider contract.
type Searcher interface {
	Probe(ctx context.Context) bool
	Search(ctx context.Context, query string) (string, error)
}

// AnswerReviewer produces a trust verdict for one question/answer pair.
type AnswerReviewer interface {
	Review(ctx context.Context, question, answer string) (*domain.Verdict, error)
}

// ChatService runs the full answer pipeline for one user message:
// window -> generate -> review -> (search -> regenerate) -> sanitize.
// Stages are strictly sequential per message; a session admits only one
// pipeline at a time.
type ChatService struct {
	cfg         *config.Config
	sessionRepo *repository.SessionRepository
	generator   Generator
	reviewer    AnswerReviewer
	searcher    Searcher
	logger      *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewChatService creates a new chat service.
func NewChatService(
	cfg *config.Config,
	sessionRepo *repository.SessionRepository,
	generator Generator,
	reviewer AnswerReviewer,
	searcher Searcher,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		cfg:         cfg,
		sessionRepo: sessionRepo,
		generator:   generator,
		reviewer:    reviewer,
		searcher:    searcher,
		logger:      logger,
		inFlight:    make(map[string]struct{}),
	}
}

// acquire marks the session busy; a session admits one pipeline at a time.
func (s *ChatService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *ChatService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

// Chat runs the pipeline for one user message and returns its terminal
// state. Backend failures abort the remaining stages; the failed stage
// is recorded as a system turn and surfaced to the caller.
func (s *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	question := strings.TrimSpace(req.Message)
	if question == "" {
		return nil, domain.ErrInvalidRequest
	}

	// Get or create session
	sessionID := req.SessionID
	if sessionID == "" {
		session := &domain.Session{}
		if err := s.sessionRepo.Create(session); err != nil {
			return nil, err
		}
		sessionID = session.ID
	} else {
		session, err := s.sessionRepo.Get(sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, domain.ErrNotFound
		}
	}

	if !s.acquire(sessionID) {
		return nil, domain.ErrBusy
	}
	defer s.release(sessionID)

	if err := s.generator.CheckRunning(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	// The window is built from the log as it stood before this message;
	// the new question goes into the prompt footer.
	history, err := s.sessionRepo.ListTurns(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.appendTurn(sessionID, domain.SenderUser, question); err != nil {
		return nil, err
	}

	// Stage 1: generation.
	prompt := BuildConversationPrompt(history, question)
	genCtx, cancelGen := context.WithTimeout(ctx, s.cfg.Ollama.GenerateTimeout)
	answer, err := s.generator.Generate(genCtx, prompt)
	cancelGen()
	if err != nil {
		return nil, s.failStage(sessionID, domain.StageGenerate, err)
	}
	s.logger.Info("answer generated",
		zap.String("session", sessionID),
		zap.Int("answer_len", len(answer)),
	)

	// Stage 2: review. The answer is held back until a verdict exists.
	revCtx, cancelRev := context.WithTimeout(ctx, s.cfg.Ollama.ReviewTimeout)
	verdict, err := s.reviewer.Review(revCtx, question, answer)
	cancelRev()
	if err != nil {
		return nil, s.failStage(sessionID, domain.StageReview, err)
	}
	s.logger.Info("answer reviewed",
		zap.String("session", sessionID),
		zap.Bool("needs_search", verdict.NeedsSearch),
		zap.Float64("confidence", verdict.Confidence),
	)

	if !verdict.NeedsSearch {
		return s.finishTrusted(sessionID, answer, verdict)
	}

	return s.searchAndRegenerate(ctx, sessionID, history, question, answer, verdict)
}

// finishTrusted records and returns the original answer with its
// confidence annotation.
func (s *ChatService) finishTrusted(sessionID, answer string, verdict *domain.Verdict) (*domain.ChatResponse, error) {
	clean := SanitizeAnswer(answer)
	if err := s.appendTurn(sessionID, domain.SenderAssistant, clean); err != nil {
		return nil, err
	}
	return &domain.ChatResponse{
		SessionID:  sessionID,
		Answer:     clean,
		Confidence: verdict.Confidence,
		Rationale:  verdict.Rationale,
	}, nil
}

// searchAndRegenerate runs the augmentation path: connectivity probe,
// real search, regeneration with results injected.
func (s *ChatService) searchAndRegenerate(
	ctx context.Context,
	sessionID string,
	history []domain.Turn,
	question, answer string,
	verdict *domain.Verdict,
) (*domain.ChatResponse, error) {
	// Unreachable provider: fall back to the held-back answer, flagged
	// offline with its confidence score.
	probeCtx, cancelProbe := context.WithTimeout(ctx, s.cfg.Search.Timeout)
	reachable := s.searcher.Probe(probeCtx)
	cancelProbe()
	if !reachable {
		s.logger.Warn("search provider unreachable, returning offline answer",
			zap.String("session", sessionID))
		if err := s.appendTurn(sessionID, domain.SenderSystem, "网络连接不可用，显示离线回答"); err != nil {
			return nil, err
		}
		clean := SanitizeAnswer(answer)
		if err := s.appendTurn(sessionID, domain.SenderAssistant, clean); err != nil {
			return nil, err
		}
		return &domain.ChatResponse{
			SessionID:  sessionID,
			Answer:     clean,
			Confidence: verdict.Confidence,
			Offline:    true,
			Rationale:  verdict.Rationale,
		}, nil
	}

	searchCtx, cancelSearch := context.WithTimeout(ctx, s.cfg.Search.Timeout)
	results, err := s.searcher.Search(searchCtx, question)
	cancelSearch()
	if err != nil {
		return nil, s.failStage(sessionID, domain.StageSearch, err)
	}

	// No results: report and stop, without regeneration.
	if strings.TrimSpace(results) == "" {
		notice := search.NoResultsMessage()
		if err := s.appendTurn(sessionID, domain.SenderSystem, notice); err != nil {
			return nil, err
		}
		return &domain.ChatResponse{
			SessionID:  sessionID,
			Confidence: verdict.Confidence,
			Notice:     notice,
			Rationale:  verdict.Rationale,
		}, nil
	}

	prompt := BuildEnhancedPrompt(history, question, results)
	genCtx, cancelGen := context.WithTimeout(ctx, s.cfg.Ollama.GenerateTimeout)
	enhanced, err := s.generator.Generate(genCtx, prompt)
	cancelGen()
	if err != nil {
		return nil, s.failStage(sessionID, domain.StageRegenerate, err)
	}

	clean := SanitizeAnswer(enhanced)
	if err := s.appendTurn(sessionID, domain.SenderAssistantEnhanced, clean); err != nil {
		return nil, err
	}
	s.logger.Info("web-enhanced answer generated", zap.String("session", sessionID))
	return &domain.ChatResponse{
		SessionID:  sessionID,
		Answer:     clean,
		Confidence: verdict.Confidence,
		Enhanced:   true,
		Rationale:  verdict.Rationale,
	}, nil
}

// History returns the full turn log of a session.
func (s *ChatService) History(sessionID string) ([]domain.Turn, error) {
	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return s.sessionRepo.ListTurns(sessionID)
}

// ClearHistory empties a session's turn log on explicit user action.
func (s *ChatService) ClearHistory(sessionID string) error {
	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrNotFound
	}
	count, err := s.sessionRepo.CountTurns(sessionID)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.ClearTurns(sessionID); err != nil {
		return err
	}
	s.logger.Info("history cleared",
		zap.String("session", sessionID),
		zap.Int("turns", count),
	)
	return nil
}

func (s *ChatService) appendTurn(sessionID string, sender domain.Sender, text string) error {
	if err := s.sessionRepo.AppendTurn(&domain.Turn{
		SessionID: sessionID,
		Sender:    sender,
		Text:      text,
	}); err != nil {
		return err
	}
	return s.sessionRepo.Touch(sessionID)
}

// failStage records a stage failure as a system turn and returns it as a
// typed error; remaining stages are abandoned, nothing is retried. An
// error already attributed to a stage is passed through unchanged.
func (s *ChatService) failStage(sessionID string, stage domain.Stage, err error) error {
	var stageErr *domain.StageError
	if !errors.As(err, &stageErr) {
		stageErr = domain.NewStageError(stage, err)
	}
	s.logger.Error("pipeline stage failed",
		zap.String("session", sessionID),
		zap.String("stage", string(stageErr.Stage)),
		zap.Error(stageErr.Err),
	)
	if recErr := s.appendTurn(sessionID, domain.SenderSystem, stageErr.Error()); recErr != nil {
		s.logger.Error("failed to record stage error", zap.Error(recErr))
	}
	return stageErr
}
