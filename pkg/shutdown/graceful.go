// Package shutdown предоставляет функциональность для корректного завершения приложения
// путем ожидания и обработки сигналов SIGINT и SIGTERM.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ErrTimeout возвращается, если хуки не завершились за отведенное время.
var ErrTimeout = errors.New("shutdown timeout exceeded")

// Wait блокирует выполнение до получения сигнала SIGINT или SIGTERM (или отмены ctx),
// затем параллельно выполняет все хуки в рамках заданного timeout.
// Возвращает объединенные ошибки хуков.
func Wait(ctx context.Context, timeout time.Duration, hooks ...func(context.Context) error) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	stop()

	return Run(timeout, hooks...)
}

// Run выполняет хуки параллельно и ждет их завершения не дольше timeout.
func Run(timeout time.Duration, hooks ...func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		wgp  sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, hook := range hooks {
		wgp.Add(1)
		go func(fn func(context.Context) error) {
			defer wgp.Done()
			if err := fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wgp.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		mu.Lock()
		errs = append(errs, fmt.Errorf("%w: %s", ErrTimeout, timeout))
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(errs...)
}
