package core

import "context"

type passIDKey struct{}
type triggerKey struct{}

// Trigger identifies what started an aggregation pass.
type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerManual Trigger = "manual"
	TriggerCron   Trigger = "cron"
)

func WithPassID(ctx context.Context, passID string) context.Context {
	if ctx == nil || passID == "" {
		return ctx
	}
	return context.WithValue(ctx, passIDKey{}, passID)
}

func PassIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(passIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithTrigger(ctx context.Context, trigger Trigger) context.Context {
	if ctx == nil || trigger == "" {
		return ctx
	}
	return context.WithValue(ctx, triggerKey{}, trigger)
}

func TriggerFromContext(ctx context.Context) Trigger {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(triggerKey{}).(Trigger); ok {
		return v
	}
	return ""
}
