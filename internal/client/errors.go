package client

import (
	"context"
	"errors"

	"go.uber.org/zap"

	authentities "tagnote/internal/auth/domain/entities"
	authservices "tagnote/internal/auth/domain/services"
	notesapp "tagnote/internal/notes/app"
	notesentities "tagnote/internal/notes/domain/entities"
	"tagnote/internal/resilience"
	"tagnote/pkg/logger"
)

// Kind класс ошибки удаленной операции.
type Kind int

// Классы ошибок.
const (
	KindTransport Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRemote:
		return "remote"
	default:
		return "transport"
	}
}

// Сообщения, которые клиент формирует сам.
const (
	MsgSessionMissing     = "Auth session missing"
	MsgServiceUnavailable = "Authentication service is temporarily unavailable"

	LogRemoteFailed    = "remote operation failed"
	LogTransportFailed = "remote call failed unexpectedly"
)

// Error ошибка операции клиента. Message пригоден для показа пользователю,
// если Kind не KindTransport.
type Error struct {
	Op      string
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf возвращает класс ошибки. Ошибки, не порожденные клиентом, считаются транспортными.
func KindOf(err error) Kind {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return clientErr.Kind
	}
	return KindTransport
}

// IsKind сообщает, относится ли err к классу kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsBackendFailure сообщает, что ошибка говорит о неисправности сервиса, а не о
// отказе в конкретном запросе. Используется Circuit Breaker.
func IsBackendFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	kind := classify(err).kind
	return kind == KindTransport || kind == KindRemote
}

type classification struct {
	sentinel error
	kind     Kind
}

// Порядок важен: более конкретные ошибки проверяются раньше оберток уровня приложения.
var classifications = []classification{
	{authentities.ErrInvalidEmail, KindValidation},
	{authentities.ErrPasswordTooShort, KindValidation},
	{authentities.ErrPasswordTooWeak, KindValidation},
	{authentities.ErrEmptyUserID, KindValidation},
	{notesentities.ErrEmptyTitle, KindValidation},
	{notesentities.ErrEmptyContent, KindValidation},
	{notesentities.ErrEmptyUpdate, KindValidation},
	{notesentities.ErrInvalidPage, KindValidation},
	{notesapp.ErrInvalidParams, KindValidation},

	{authservices.ErrInvalidCredentials, KindUnauthorized},
	{authservices.ErrInvalidRefreshToken, KindUnauthorized},
	{authservices.ErrRevokedRefreshToken, KindUnauthorized},
	{authservices.ErrExpiredRefreshToken, KindUnauthorized},
	{authservices.ErrExpiredJWTToken, KindUnauthorized},
	{authservices.ErrInvalidJWTToken, KindUnauthorized},
	{authentities.ErrUserNotFound, KindUnauthorized},
	{notesapp.ErrUnauthorized, KindUnauthorized},

	{notesentities.ErrNoteNotFound, KindNotFound},
	{notesapp.ErrNotFound, KindNotFound},

	{authservices.ErrEmailAlreadyExists, KindConflict},

	{authservices.ErrTokenGenerationFailed, KindRemote},
	{authservices.ErrHashingFailed, KindRemote},
}

type classified struct {
	kind    Kind
	message string
}

func classify(err error) classified {
	var clientErr *Error
	if errors.As(err, &clientErr) {
		return classified{kind: clientErr.Kind, message: clientErr.Message}
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return classified{kind: KindTransport, message: MsgServiceUnavailable}
	}
	for _, c := range classifications {
		if errors.Is(err, c.sentinel) {
			return classified{kind: c.kind, message: c.sentinel.Error()}
		}
	}
	return classified{kind: KindTransport, message: err.Error()}
}

// Wrap приводит ошибку бэкенда к *Error операции op.
func Wrap(op string, err error) *Error {
	if err == nil {
		return nil
	}
	c := classify(err)
	return &Error{Op: op, Kind: c.kind, Message: c.message, Err: err}
}

// fail классифицирует и журналирует ошибку. Ошибки валидации не журналируются.
func fail(ctx context.Context, op string, err error) *Error {
	e := Wrap(op, err)
	log := logger.Log(ctx).With(zap.String("op", op), zap.Stringer("kind", e.Kind))
	switch e.Kind {
	case KindValidation:
	case KindTransport:
		log.Error(ctx, LogTransportFailed, zap.Error(err))
	case KindRemote:
		log.Warn(ctx, LogRemoteFailed, zap.Error(err))
	default:
		log.Debug(ctx, LogRemoteFailed, zap.String("message", e.Message))
	}
	return e
}
