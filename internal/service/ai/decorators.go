package ai

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type timeoutAnalyzer struct {
	next    Analyzer
	timeout time.Duration
}

// WithTimeout bounds each call to d. A non-positive d leaves the analyzer unchanged.
func WithTimeout(next Analyzer, d time.Duration) Analyzer {
	if d <= 0 {
		return next
	}
	return &timeoutAnalyzer{next: next, timeout: d}
}

func (t *timeoutAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Analyze(ctx, image, mimeType)
}

type loggingAnalyzer struct {
	next     Analyzer
	provider string
	log      *zap.Logger
}

// WithLogging records the outcome and latency of every call on log.
func WithLogging(next Analyzer, provider string, log *zap.Logger) Analyzer {
	return &loggingAnalyzer{next: next, provider: provider, log: log}
}

func (l *loggingAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	start := time.Now()
	text, err := l.next.Analyze(ctx, image, mimeType)
	fields := []zap.Field{
		zap.String("provider", l.provider),
		zap.String("mime_type", mimeType),
		zap.Int("bytes", len(image)),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		l.log.Error("analysis failed", append(fields, zap.Error(err))...)
		return "", err
	}
	l.log.Debug("analysis completed", append(fields, zap.Int("response_chars", len(text)))...)
	return text, nil
}
