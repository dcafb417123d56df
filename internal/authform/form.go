// Package authform содержит состояние и проверку формы входа и регистрации.
package authform

import (
	"context"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"tagnote/internal/client"
	"tagnote/pkg/logger"
)

// MinPasswordLength минимальная длина пароля, проверяемая до обращения к провайдеру.
const MinPasswordLength = 6

// Сообщения формы.
const (
	MsgFillAllFields    = "Please fill in all fields"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgUnexpected       = "An unexpected error occurred"

	LogAuthFailed = "auth form submit failed"
)

// Mode режим формы.
type Mode int

// Режимы формы.
const (
	ModeLogin Mode = iota
	ModeSignUp
)

// Authenticator выполняет вход и регистрацию.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*client.User, error)
	SignUp(ctx context.Context, email, password string) (*client.User, error)
}

// View данные для отображения формы.
type View struct {
	Mode        Mode
	Email       string
	Error       string
	Loading     bool
	Title       string
	SubmitLabel string
	SwitchText  string
	SwitchLabel string
}

// IsLogin сообщает, что форма в режиме входа.
func (v View) IsLogin() bool {
	return v.Mode == ModeLogin
}

// Form состояние формы одной браузерной сессии.
type Form struct {
	auth Authenticator

	mu       sync.Mutex
	mode     Mode
	email    string
	password string
	errMsg   string
	loading  bool
}

// New создает форму в режиме входа.
func New(auth Authenticator) *Form {
	return &Form{auth: auth, mode: ModeLogin}
}

// Toggle переключает режим и очищает поля и ошибку.
func (f *Form) Toggle() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loading {
		return
	}
	if f.mode == ModeLogin {
		f.mode = ModeSignUp
	} else {
		f.mode = ModeLogin
	}
	f.email = ""
	f.password = ""
	f.errMsg = ""
}

// Submit проверяет поля и выполняет вход или регистрацию. Возвращает true при успехе;
// иначе текст ошибки доступен через View.
func (f *Form) Submit(ctx context.Context, email, password string) bool {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return false
	}
	f.email = email
	f.password = password
	f.errMsg = ""

	if email == "" || password == "" {
		f.errMsg = MsgFillAllFields
		f.mu.Unlock()
		return false
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		f.errMsg = MsgPasswordTooShort
		f.mu.Unlock()
		return false
	}

	mode := f.mode
	f.loading = true
	f.mu.Unlock()

	var err error
	if mode == ModeLogin {
		_, err = f.auth.SignIn(ctx, email, password)
	} else {
		_, err = f.auth.SignUp(ctx, email, password)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	if err != nil {
		if client.IsKind(err, client.KindTransport) {
			logger.Log(ctx).Error(ctx, LogAuthFailed, zap.Error(err))
			f.errMsg = MsgUnexpected
		} else {
			f.errMsg = err.Error()
		}
		return false
	}

	f.email = ""
	f.password = ""
	return true
}

// View возвращает текущее состояние формы. Пароль не возвращается.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{Mode: f.mode, Email: f.email, Error: f.errMsg, Loading: f.loading}
	if f.mode == ModeLogin {
		v.Title = "Sign In to Your Account"
		v.SubmitLabel = "Sign In"
		v.SwitchText = "Don't have an account? "
		v.SwitchLabel = "Sign Up"
	} else {
		v.Title = "Create New Account"
		v.SubmitLabel = "Sign Up"
		v.SwitchText = "Already have an account? "
		v.SwitchLabel = "Sign In"
	}
	if f.loading {
		v.SubmitLabel = "Please wait..."
	}
	return v
}
