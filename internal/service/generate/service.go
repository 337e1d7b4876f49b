package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"meetnotes/contracts/mq"
	"meetnotes/internal/cache"
	"meetnotes/internal/notes"
	"meetnotes/pkg/logger"
	"meetnotes/pkg/metrics"
)

// DefaultMaxInputChars 合并后文本的字符上限
const DefaultMaxInputChars = 50000

const (
	KindArtifacts     = "artifacts"
	KindAnalyze       = "analyze"
	KindFollowUpEmail = "follow_up_email"
)

var (
	// ErrEmptyInput 三个输入字段都为空
	ErrEmptyInput = errors.New("rawNotes, postMeetingNotes or meetingOutcome is required")
	// ErrPayloadTooLarge 合并后的文本超过上限
	ErrPayloadTooLarge = errors.New("notes exceed the maximum size")
	// ErrGenerationFailed 格式化过程中的意外失败，不返回部分结果
	ErrGenerationFailed = errors.New("generation failed")
)

// Cache 由 internal/cache.ArtifactCache 实现
type Cache interface {
	Get(ctx context.Context, key string, out any) bool
	Set(ctx context.Context, key string, v any)
}

// Events 由 internal/events.Emitter 实现
type Events interface {
	NotesGenerated(ctx context.Context, p mq.NotesGeneratedPayload)
	EmailDrafted(ctx context.Context, p mq.EmailDraftedPayload)
}

type Option func(*Service)

func WithParser(p *notes.Parser) Option { return func(s *Service) { s.parser = p } }

func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

func WithEvents(e Events) Option { return func(s *Service) { s.events = e } }

// WithMaxInputChars n<=0 时使用默认值
func WithMaxInputChars(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxInputChars = n
		}
	}
}

// Service 请求边界：校验、合并输入、调用解析流水线、缓存和发布事件
type Service struct {
	parser        *notes.Parser
	cache         Cache
	events        Events
	maxInputChars int
	salt          string
	logger        *zap.Logger
}

func NewService(log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		parser:        notes.NewParser(notes.DefaultVocabulary()),
		maxInputChars: DefaultMaxInputChars,
		logger:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	// 词表变化后旧缓存自动失效
	vocab, _ := yaml.Marshal(s.parser.Vocabulary())
	s.salt = cache.Digest(string(vocab))
	return s
}

// MaxInputChars 生效中的输入上限
func (s *Service) MaxInputChars() int {
	return s.maxInputChars
}

// Validate 返回合并后的文本，或者 ErrEmptyInput / ErrPayloadTooLarge
func (s *Service) Validate(req Request) (string, error) {
	if req.IsEmpty() {
		return "", ErrEmptyInput
	}
	merged := MergeInput(req)
	if n := utf8.RuneCountInString(merged); n > s.maxInputChars {
		return "", fmt.Errorf("%w: %d characters, limit is %d", ErrPayloadTooLarge, n, s.maxInputChars)
	}
	return merged, nil
}

// Generate 生成摘要和行动项；email 字段始终为空
func (s *Service) Generate(ctx context.Context, req Request) (notes.Outputs, error) {
	log := logger.WithTrace(ctx, s.logger)
	start := time.Now()

	merged, err := s.Validate(req)
	if err != nil {
		metrics.RecordGeneration(KindArtifacts, "rejected", 0)
		log.Warn("Generate rejected", zap.Error(err))
		return notes.Outputs{}, err
	}
	metrics.RecordInputChars(utf8.RuneCountInString(merged))

	digest := cache.Digest(s.salt, merged)
	key := cache.Key(KindArtifacts, digest)
	var out notes.Outputs
	if s.cache != nil && s.cache.Get(ctx, key, &out) {
		metrics.RecordGeneration(KindArtifacts, "cached", 0)
		log.Debug("Generate served from cache", zap.String("digest", digest))
		return out, nil
	}

	analysis, err := s.analyze(merged)
	if err == nil {
		out, err = render(analysis.Outputs)
	}
	if err != nil {
		metrics.RecordGeneration(KindArtifacts, "failed", 0)
		log.Error("Generate failed", zap.Int("text_length", len(merged)), zap.Error(err))
		return notes.Outputs{}, err
	}

	metrics.RecordGeneration(KindArtifacts, "success", time.Since(start))
	metrics.RecordPipelineItems(len(analysis.Bullets), len(analysis.ActionItems), len(analysis.Issues))
	log.Info("Artifacts generated",
		zap.Int("text_length", len(merged)),
		zap.Int("bullets", len(analysis.Bullets)),
		zap.Int("action_items", len(analysis.ActionItems)),
		zap.Int("issues", len(analysis.Issues)),
	)

	if s.cache != nil {
		s.cache.Set(ctx, key, out)
	}
	if s.events != nil {
		s.events.NotesGenerated(ctx, mq.NotesGeneratedPayload{
			SessionID:   req.SessionID,
			Digest:      digest,
			BulletCount: len(analysis.Bullets),
			IssueCount:  len(analysis.Issues),
			ActionItems: contractItems(analysis.ActionItems),
			GeneratedAt: time.Now(),
		})
	}
	return out, nil
}

// Analyze 返回结构化的中间结果（bullet、行动项、问题和计数），不缓存
func (s *Service) Analyze(ctx context.Context, req Request) (notes.Analysis, error) {
	log := logger.WithTrace(ctx, s.logger)
	start := time.Now()

	merged, err := s.Validate(req)
	if err != nil {
		metrics.RecordGeneration(KindAnalyze, "rejected", 0)
		return notes.Analysis{}, err
	}
	analysis, err := s.analyze(merged)
	if err != nil {
		metrics.RecordGeneration(KindAnalyze, "failed", 0)
		log.Error("Analyze failed", zap.Error(err))
		return notes.Analysis{}, err
	}
	metrics.RecordGeneration(KindAnalyze, "success", time.Since(start))
	return analysis, nil
}

// DraftFollowUp 用高亮生成跟进邮件
func (s *Service) DraftFollowUp(ctx context.Context, req FollowUpRequest) (string, error) {
	log := logger.WithTrace(ctx, s.logger)
	start := time.Now()

	if n := req.size(); n > s.maxInputChars {
		metrics.RecordGeneration(KindFollowUpEmail, "rejected", 0)
		return "", fmt.Errorf("%w: %d characters, limit is %d", ErrPayloadTooLarge, n, s.maxInputChars)
	}
	args := req.DraftArgs()

	raw, _ := json.Marshal(args)
	key := cache.Key(KindFollowUpEmail, cache.Digest(s.salt, string(raw)))
	var email string
	if s.cache != nil && s.cache.Get(ctx, key, &email) {
		metrics.RecordGeneration(KindFollowUpEmail, "cached", 0)
		return email, nil
	}

	email, err := render(func() string { return notes.MakeFollowUpEmailDraftFromHighlights(args) })
	if err != nil {
		metrics.RecordGeneration(KindFollowUpEmail, "failed", 0)
		log.Error("Follow-up email failed", zap.Int("highlights", len(args.Highlights)), zap.Error(err))
		return "", err
	}

	metrics.RecordGeneration(KindFollowUpEmail, "success", time.Since(start))
	log.Info("Follow-up email drafted",
		zap.Int("highlights", len(args.Highlights)),
		zap.String("email_type", string(args.EmailType)),
		zap.String("email_tone", string(args.EmailTone)),
	)

	if s.cache != nil {
		s.cache.Set(ctx, key, email)
	}
	if s.events != nil {
		s.events.EmailDrafted(ctx, mq.EmailDraftedPayload{
			SessionID:      req.SessionID,
			EmailType:      string(args.EmailType),
			EmailTone:      string(args.EmailTone),
			HighlightCount: len(args.Highlights),
			DraftedAt:      time.Now(),
		})
	}
	return email, nil
}

// Parser 当前使用的解析器
func (s *Service) Parser() *notes.Parser {
	return s.parser
}

func (s *Service) analyze(merged string) (notes.Analysis, error) {
	return render(func() notes.Analysis { return s.parser.Analyze(merged) })
}

// render 把流水线中的 panic 转成 ErrGenerationFailed
func render[T any](fn func() T) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out = zero
			err = fmt.Errorf("%w: %v", ErrGenerationFailed, r)
		}
	}()
	return fn(), nil
}

func contractItems(items []notes.ActionItem) []mq.ActionItem {
	out := make([]mq.ActionItem, 0, len(items))
	for _, it := range items {
		out = append(out, mq.ActionItem{Title: it.Text, Owner: it.Owner, Due: it.Due, Notes: it.Notes})
	}
	return out
}
