package review

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trustchat/internal/domain"
)

// Generator is the delegated review backend: a single-shot prompt call,
// satisfied by the Ollama client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options tunes the reviewer.
type Options struct {
	// TrustThreshold is the single trust boundary. A delegated score at
	// or below it means the answer needs search augmentation.
	TrustThreshold float64
	// RecentYearWindow is the +/- year distance treated as recency risk.
	RecentYearWindow int
	// DefaultScore is used when the delegated response has no parsable
	// score.
	DefaultScore float64
	// Now supplies the current time; defaults to time.Now.
	Now func() time.Time
}

// Reviewer produces exactly one trust verdict per (question, answer)
// pair. The checks run in strict priority order; the first that fires is
// terminal for the request.
type Reviewer struct {
	classifier *Classifier
	backend    Generator
	opts       Options
	logger     *zap.Logger
}

// NewReviewer creates a reviewer over the given rules and delegated
// review backend.
func NewReviewer(rules *Rules, backend Generator, opts Options, logger *zap.Logger) *Reviewer {
	if opts.TrustThreshold == 0 {
		opts.TrustThreshold = 70
	}
	if opts.RecentYearWindow == 0 {
		opts.RecentYearWindow = 5
	}
	if opts.DefaultScore == 0 {
		opts.DefaultScore = 50
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{
		classifier: NewClassifier(rules),
		backend:    backend,
		opts:       opts,
		logger:     logger,
	}
}

// Classifier exposes the underlying classifier.
func (r *Reviewer) Classifier() *Classifier {
	return r.classifier
}

const reviewPromptTemplate = `
请审查以下问答对的质量和可信度：

问题：%s

回答：%s

请从以下几个维度评估回答质量：
1. 回答是否直接回应了问题
2. 回答内容是否准确和可信
3. 回答是否完整和详细
4. 是否存在明显的错误或不确定性

请给出一个0-100的可信度分数，并简要说明理由。
如果可信度低于70分，建议进行网络搜索以获取更准确的信息。

请按以下格式回复：
可信度分数：[分数]
理由：[简要说明]
建议：[是否需要网络搜索]
`

// Review runs the trust state machine for one (question, answer) pair.
// It only returns an error when the delegated review call itself fails;
// every rule-based path always yields a verdict.
func (r *Reviewer) Review(ctx context.Context, question, answer string) (*domain.Verdict, error) {
	// Greetings pass without review.
	if r.classifier.IsSimpleGreeting(question) {
		r.logger.Debug("review: simple greeting", zap.String("question", question))
		return &domain.Verdict{
			NeedsSearch: false,
			Confidence:  95,
			Rationale:   "检测到简单问候语，直接通过审查。",
		}, nil
	}

	// Time-sensitive questions always search, whatever the answer says.
	if r.classifier.IsTimeSensitive(question) {
		r.logger.Debug("review: time-sensitive question", zap.String("question", question))
		return &domain.Verdict{
			NeedsSearch: true,
			Confidence:  0,
			Rationale:   "检测到时间相关问题，直接设置可信度为0，触发联网搜索获取最新时间信息。",
		}, nil
	}

	// Non-intellectual chatter is not reviewed at all.
	if !r.classifier.IsIntellectual(question) {
		r.logger.Debug("review: non-intellectual question", zap.String("question", question))
		return &domain.Verdict{
			NeedsSearch: false,
			Confidence:  100,
			Rationale:   "检测到非智力问题（日常对话、情感交流等），可信度设为100%。",
		}, nil
	}

	// The model admitting it does not know beats any self-score.
	if r.classifier.AdmitsUncertainty(answer) {
		r.logger.Debug("review: uncertainty admitted")
		return &domain.Verdict{
			NeedsSearch: true,
			Confidence:  0,
			Rationale:   "检测到AI回答中主动承认不确定或不知道，可信度设置为0。需要联网搜索准确信息。",
		}, nil
	}

	if r.classifier.TemporalScore(answer, r.opts.Now(), r.opts.RecentYearWindow) == 0 {
		r.logger.Debug("review: recency-risky temporal content")
		return &domain.Verdict{
			NeedsSearch: true,
			Confidence:  0,
			Rationale:   "检测到回答中包含时间信息且与当前日期相差在5年内，可信度设置为0。需要联网搜索最新信息。",
		}, nil
	}

	// Fallback: delegated self-review.
	reviewText, err := r.backend.Generate(ctx, fmt.Sprintf(reviewPromptTemplate, question, answer))
	if err != nil {
		return nil, domain.NewStageError(domain.StageReview, err)
	}

	score := ExtractConfidenceScore(reviewText, r.opts.DefaultScore)
	verdict := &domain.Verdict{
		NeedsSearch: score <= r.opts.TrustThreshold,
		Confidence:  score,
		Rationale:   reviewText,
	}
	r.logger.Info("review: delegated verdict",
		zap.Float64("score", score),
		zap.Bool("needs_search", verdict.NeedsSearch),
	)
	return verdict, nil
}
