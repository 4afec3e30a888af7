package otp

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sender delivers a code to a mobile number.
type Sender interface {
	Send(ctx context.Context, mobile, code string) error
}

// LogSender stands in for an SMS gateway: it waits delay, then logs the code.
type LogSender struct {
	log   *zap.Logger
	delay time.Duration
}

func NewLogSender(log *zap.Logger, delay time.Duration) *LogSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSender{log: log.With(zap.String("component", "sms")), delay: delay}
}

func (s *LogSender) Send(ctx context.Context, mobile, code string) error {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	s.log.Info("sms dispatched", zap.String("mobile", mobile), zap.String("otp", code))
	return nil
}
