package service

import (
	"errors"
	"fmt"
)

const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodePasswordError = "PASSWORD_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL"
)

type Resource string

const (
	ResourceTask    Resource = "задача"
	ResourceAccount Resource = "аккаунт"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewBadRequest(field, reason string) *BusinessError {
	return NewBusinessError(CodeBadRequest,
		fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

// NewNotFound не различает "нет такой", "чужая" и "удалена".
func NewNotFound(resource Resource, id string) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("%s %s не найден(а)", resource, id),
		ToDetail("resource", string(resource)),
		ToDetail("id", id),
	)
}

// NewPasswordError одинакова для неизвестного пользователя и неверного пароля.
func NewPasswordError() *BusinessError {
	return NewBusinessError(CodePasswordError, "Неверное имя пользователя или пароль")
}

func NewUnauthorized(err error) *BusinessError {
	busErr := NewBusinessError(CodeUnauthorized, "Требуется авторизация")
	busErr.Err = err
	return busErr
}

func NewConflict(message string) *BusinessError {
	return NewBusinessError(CodeConflict, message)
}

// NewInternal скрывает причину от клиента, err остаётся только для логов.
func NewInternal(err error) *BusinessError {
	busErr := NewBusinessError(CodeInternal, "Внутренняя ошибка сервера")
	busErr.Err = err
	return busErr
}

// AsBusinessError достаёт BusinessError из цепочки ошибок.
func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}

// HasCode сообщает, что err - BusinessError с кодом code.
func HasCode(err error, code string) bool {
	busErr, ok := AsBusinessError(err)
	return ok && busErr.Code == code
}
