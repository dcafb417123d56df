// Package resilience содержит механизмы обеспечения отказоустойчивости.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"tagnote/pkg/logger"
)

// CircuitState представляет состояние Circuit Breaker.
type CircuitState int

// Состояния Circuit Breaker.
const (
	// StateClosed нормальное состояние, запросы проходят.
	StateClosed CircuitState = iota
	// StateOpen состояние отказа, запросы блокируются.
	StateOpen
	// StateHalfOpen промежуточное состояние, пробные запросы.
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Константы для логирования.
const (
	LogCircuitStateChange = "circuit breaker state changed"
	LogCircuitTrip        = "circuit breaker tripped"
	LogCircuitReset       = "circuit breaker reset"
	LogCircuitReject      = "circuit breaker rejected request"
)

// ErrCircuitOpen возвращается, когда Circuit Breaker не пропускает запрос.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig содержит настройки Circuit Breaker.
type CircuitBreakerConfig struct {
	// ErrorThreshold количество подряд идущих ошибок до перехода в открытое состояние.
	ErrorThreshold int
	// Timeout время в открытом состоянии до перехода в полуоткрытое.
	Timeout time.Duration
	// SuccessThreshold количество успешных пробных запросов для закрытия.
	SuccessThreshold int
	// IsFailure решает, считается ли ошибка отказом сервиса. nil означает "любая ошибка".
	IsFailure func(error) bool
}

// DefaultCircuitBreakerConfig возвращает конфигурацию Circuit Breaker по умолчанию.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		ErrorThreshold:   5,
		Timeout:          10 * time.Second,
		SuccessThreshold: 2,
	}
}

// CircuitBreaker реализует паттерн Circuit Breaker. Безопасен для конкурентного использования.
type CircuitBreaker struct {
	name string
	mu   sync.Mutex

	state           CircuitState
	config          CircuitBreakerConfig
	failures        int
	successes       int
	inFlight        int
	lastStateChange time.Time
	now             func() time.Time
}

// NewCircuitBreaker создает новый экземпляр Circuit Breaker.
func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	defaults := DefaultCircuitBreakerConfig()
	if config.ErrorThreshold <= 0 {
		config.ErrorThreshold = defaults.ErrorThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}
	return &CircuitBreaker{
		name:            name,
		state:           StateClosed,
		config:          config,
		lastStateChange: time.Now(),
		now:             time.Now,
	}
}

// WithClock подменяет источник времени.
func (cb *CircuitBreaker) WithClock(now func() time.Time) *CircuitBreaker {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.now = now
	cb.lastStateChange = now()
	return cb
}

// Execute выполняет функцию с защитой Circuit Breaker.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if !cb.AllowRequest(ctx) {
		return ErrCircuitOpen
	}

	err := fn()
	cb.RecordResult(ctx, err)
	return err
}

func (cb *CircuitBreaker) log(ctx context.Context) *logger.Logger {
	return logger.Log(ctx).With(
		zap.String("circuit_breaker", cb.name),
		zap.Stringer("circuit_state", cb.state),
	)
}

// AllowRequest проверяет возможность выполнения запроса. В полуоткрытом состоянии
// одновременно пропускается не более SuccessThreshold пробных запросов.
func (cb *CircuitBreaker) AllowRequest(ctx context.Context) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && cb.now().Sub(cb.lastStateChange) >= cb.config.Timeout {
		cb.setState(ctx, StateHalfOpen)
	}

	switch cb.state {
	case StateClosed:
		return true
	case StateHalfOpen:
		if cb.inFlight >= cb.config.SuccessThreshold {
			cb.log(ctx).Debug(ctx, LogCircuitReject)
			return false
		}
		cb.inFlight++
		return true
	default:
		cb.log(ctx).Debug(ctx, LogCircuitReject)
		return false
	}
}

// RecordResult записывает результат выполнения запроса.
func (cb *CircuitBreaker) RecordResult(ctx context.Context, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen && cb.inFlight > 0 {
		cb.inFlight--
	}

	if err != nil && (cb.config.IsFailure == nil || cb.config.IsFailure(err)) {
		cb.onFailure(ctx)
		return
	}

	cb.onSuccess(ctx)
}

func (cb *CircuitBreaker) onFailure(ctx context.Context) {
	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.config.ErrorThreshold {
			cb.log(ctx).Warn(ctx, LogCircuitTrip, zap.Int("failures", cb.failures))
			cb.setState(ctx, StateOpen)
		}
	case StateHalfOpen:
		cb.log(ctx).Warn(ctx, LogCircuitTrip, zap.Int("failures", cb.failures))
		cb.setState(ctx, StateOpen)
	}
}

func (cb *CircuitBreaker) onSuccess(ctx context.Context) {
	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.log(ctx).Info(ctx, LogCircuitReset)
			cb.setState(ctx, StateClosed)
		}
	}
}

func (cb *CircuitBreaker) setState(ctx context.Context, state CircuitState) {
	cb.state = state
	cb.lastStateChange = cb.now()
	cb.failures = 0
	cb.successes = 0
	cb.inFlight = 0
	cb.log(ctx).Info(ctx, LogCircuitStateChange, zap.Stringer("new_state", state))
}

// GetState возвращает текущее состояние Circuit Breaker.
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
