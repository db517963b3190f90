package gleif

import (
	"errors"
	"fmt"
)

// QueryErrorKind класс ошибки запроса к реестру.
type QueryErrorKind int

const (
	// KindBadQuery реестр отклонил параметры фильтра (HTTP 400).
	KindBadQuery QueryErrorKind = iota
	// KindNoMatches по запросу ничего не найдено (HTTP 404).
	KindNoMatches
	// KindRequestFailed любой другой HTTP статус или транспортный сбой.
	KindRequestFailed
)

func (k QueryErrorKind) String() string {
	switch k {
	case KindBadQuery:
		return "bad_query"
	case KindNoMatches:
		return "no_matches"
	case KindRequestFailed:
		return "request_failed"
	}
	return "unknown"
}

// QueryError ошибка одного запроса к реестру. Несет класс ошибки,
// HTTP статус (0 для транспортных сбоев) и вложенную ошибку для логов.
// Любая QueryError нефатальна для пакетной операции: оркестратор
// фиксирует диагностику и продолжает со следующим элементом.
type QueryError struct {
	Kind       QueryErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error реализует интерфейс error
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewBadQueryError создает ошибку отклоненного фильтра (HTTP 400).
func NewBadQueryError(status int, body string) *QueryError {
	return &QueryError{
		Kind:       KindBadQuery,
		StatusCode: status,
		Message:    fmt.Sprintf("registry rejected query parameters: %s", body),
	}
}

// NewNoMatchesError создает ошибку "ничего не найдено" (HTTP 404).
func NewNoMatchesError(status int) *QueryError {
	return &QueryError{
		Kind:       KindNoMatches,
		StatusCode: status,
		Message:    "no records found for the given query",
	}
}

// NewRequestFailedError создает ошибку неуспешного запроса:
// неожиданный HTTP статус или сбой транспорта (DNS, соединение, таймаут).
func NewRequestFailedError(status int, err error) *QueryError {
	msg := "registry request failed"
	if status > 0 {
		msg = fmt.Sprintf("registry returned status %d", status)
	}
	return &QueryError{
		Kind:       KindRequestFailed,
		StatusCode: status,
		Message:    msg,
		Err:        err,
	}
}

// IsNoMatches сообщает, является ли ошибка классом "ничего не найдено".
func IsNoMatches(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == KindNoMatches
}

// IsBadQuery сообщает, является ли ошибка классом "отклоненный фильтр".
func IsBadQuery(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == KindBadQuery
}
