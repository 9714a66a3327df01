package strategy

import (
	"context"
	"time"

	"course_commerce/internal/pkg/config"
	"course_commerce/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Resilient 为外部二维码调用加上单次超时、有限次指数退避重试与熔断
type Resilient struct {
	gateway    Gateway
	breaker    *CircuitBreaker
	timeout    time.Duration
	maxRetries uint64
	newBackOff func() backoff.BackOff
	metrics    *metrics.MetricsCollector
	logger     *zap.Logger
}

func NewResilient(gw Gateway, cfg config.GatewayConfig, m *metrics.MetricsCollector, logger *zap.Logger) *Resilient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resilient{
		gateway:    gw,
		breaker:    NewCircuitBreaker(cfg.BreakerFailures, cfg.BreakerReset),
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
		metrics: m,
		logger:  logger.With(zap.String("gateway", gw.Channel())),
	}
}

func (r *Resilient) Channel() string { return r.gateway.Channel() }

func (r *Resilient) CreateQR(ctx context.Context, req QRRequest) (string, error) {
	attempt := 0
	op := func() (string, error) {
		attempt++
		if err := r.breaker.Allow(); err != nil {
			return "", backoff.Permanent(err)
		}

		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		qr, err := r.gateway.CreateQR(callCtx, req)
		r.breaker.Record(err)
		if err != nil {
			r.logger.Warn("create qr attempt failed",
				zap.Int("attempt", attempt), zap.String("transfer_code", req.TransferCode), zap.Error(err))
			if ctx.Err() != nil {
				return "", backoff.Permanent(err)
			}
		}
		return qr, err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)
	qr, err := backoff.RetryWithData(op, b)
	if err != nil {
		r.metrics.RecordGatewayFailure(r.gateway.Channel())
		return "", err
	}
	return qr, nil
}

// Breaker 暴露熔断状态给健康检查与测试
func (r *Resilient) Breaker() *CircuitBreaker {
	return r.breaker
}

var _ Gateway = (*Resilient)(nil)
