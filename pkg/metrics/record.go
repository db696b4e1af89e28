package metrics

import "context"

// 以下包级函数在指标未初始化时静默跳过，测试与 memory 后端下无需 otel

func RecordOnboardingMutation(ctx context.Context, action, backend string) {
	if m := GetMetrics(); m != nil {
		m.RecordOnboardingMutation(ctx, action, backend)
	}
}

func RecordOnboardingSaveFailed(ctx context.Context, action, backend string) {
	if m := GetMetrics(); m != nil {
		m.RecordOnboardingSaveFailed(ctx, action, backend)
	}
}

func RecordOnboardingEvent(ctx context.Context, direction, action string) {
	if m := GetMetrics(); m != nil {
		m.RecordOnboardingEvent(ctx, direction, action)
	}
}

func RecordFeedFetch(ctx context.Context, status string, duration float64) {
	if m := GetMetrics(); m != nil {
		m.RecordFeedFetch(ctx, status, duration)
	}
}

func AddOpenPagers(ctx context.Context, delta int64) {
	if m := GetMetrics(); m != nil {
		m.AddOpenPagers(ctx, delta)
	}
}

func RecordLogin(ctx context.Context, provider, status string) {
	if m := GetMetrics(); m != nil {
		m.RecordLogin(ctx, provider, status)
	}
}
