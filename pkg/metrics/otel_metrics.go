package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics 业务指标集合
type OTelMetrics struct {
	// 引导会话
	OnboardingMutationTotal metric.Int64Counter
	OnboardingSaveFailed    metric.Int64Counter
	OnboardingEventsTotal   metric.Int64Counter

	// 动态流
	FeedFetchTotal    metric.Int64Counter
	FeedFetchDuration metric.Float64Histogram
	FeedOpenPagers    metric.Int64UpDownCounter

	// 登录
	LoginTotal metric.Int64Counter
}

var (
	metrics *OTelMetrics
	meter   = otel.Meter("knudge")
)

// InitMetrics 注册业务指标，需在 otel MeterProvider 设置之后调用
func InitMetrics() error {
	var err error
	m := &OTelMetrics{}

	m.OnboardingMutationTotal, err = meter.Int64Counter(
		"onboarding_mutation_total",
		metric.WithDescription("Total number of onboarding session mutations"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return err
	}

	m.OnboardingSaveFailed, err = meter.Int64Counter(
		"onboarding_save_failed_total",
		metric.WithDescription("Total number of failed onboarding snapshot writes"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	m.OnboardingEventsTotal, err = meter.Int64Counter(
		"onboarding_events_total",
		metric.WithDescription("Total number of onboarding change events published or consumed"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	m.FeedFetchTotal, err = meter.Int64Counter(
		"feed_fetch_total",
		metric.WithDescription("Total number of activity page fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	m.FeedFetchDuration, err = meter.Float64Histogram(
		"feed_fetch_duration_seconds",
		metric.WithDescription("Time spent fetching one activity page"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	m.FeedOpenPagers, err = meter.Int64UpDownCounter(
		"feed_open_pagers",
		metric.WithDescription("Number of open activity views"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return err
	}

	m.LoginTotal, err = meter.Int64Counter(
		"login_total",
		metric.WithDescription("Total number of simulated logins"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return err
	}

	metrics = m
	return nil
}

// GetMetrics 获取全局指标实例，未初始化时为 nil
func GetMetrics() *OTelMetrics {
	return metrics
}

func (m *OTelMetrics) RecordOnboardingMutation(ctx context.Context, action, backend string) {
	m.OnboardingMutationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("backend", backend),
	))
}

func (m *OTelMetrics) RecordOnboardingSaveFailed(ctx context.Context, action, backend string) {
	m.OnboardingSaveFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("backend", backend),
	))
}

func (m *OTelMetrics) RecordOnboardingEvent(ctx context.Context, direction, action string) {
	m.OnboardingEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
		attribute.String("action", action),
	))
}

// RecordFeedFetch status 取值 appended / exhausted / rejected / discarded / failed
func (m *OTelMetrics) RecordFeedFetch(ctx context.Context, status string, duration float64) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.FeedFetchTotal.Add(ctx, 1, attrs)
	if duration > 0 {
		m.FeedFetchDuration.Record(ctx, duration, attrs)
	}
}

func (m *OTelMetrics) AddOpenPagers(ctx context.Context, delta int64) {
	m.FeedOpenPagers.Add(ctx, delta)
}

func (m *OTelMetrics) RecordLogin(ctx context.Context, provider, status string) {
	m.LoginTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}
