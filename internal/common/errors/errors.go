// Package errors: 정답 판정 서비스 전체에서 공용으로 사용되는 에러 타입들을 정의한다.
// 판정 코어(answer)는 에러를 반환하지 않으며, 여기의 타입은 캐시/DB/전송 계층용이다.
package errors

import (
	"errors"
	"fmt"
)

// RedisError: Valkey 작업을 수행하는 도중 발생한 에러
type RedisError struct {
	Operation string
	Err       error
}

func (e RedisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("redis error operation=%s", e.Operation)
	}
	return fmt.Sprintf("redis error operation=%s: %v", e.Operation, e.Err)
}

func (e RedisError) Unwrap() error { return e.Err }

// DatabaseError: 어휘 DB(PostgreSQL/SQLite) 작업을 수행하는 도중 발생한 에러
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("db error operation=%s", e.Operation)
	}
	return fmt.Sprintf("db error operation=%s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error { return e.Err }

// LexiconError: 어휘 항목이 규칙에 맞지 않을 때 발생하는 에러
type LexiconError struct {
	Kind    string
	Term    string
	Message string
}

func (e LexiconError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "invalid lexicon entry"
	}
	if e.Kind != "" {
		msg = fmt.Sprintf("%s kind=%s", msg, e.Kind)
	}
	if e.Term != "" {
		msg = fmt.Sprintf("%s term=%q", msg, e.Term)
	}
	return msg
}

// AccessDeniedError: 관리자 API 키가 없거나 틀렸을 때 발생하는 에러
type AccessDeniedError struct {
	Reason string
}

func (e AccessDeniedError) Error() string {
	if e.Reason == "" {
		return "access denied"
	}
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// MalformedInputError: 입력 형식이 올바르지 않을 때 발생하는 에러
type MalformedInputError struct {
	Message string
}

func (e MalformedInputError) Error() string { return e.Message }

// BatchTooLargeError: 일괄 판정 요청 항목 수가 한도를 넘었을 때
type BatchTooLargeError struct {
	Size  int
	Limit int
}

func (e BatchTooLargeError) Error() string {
	return fmt.Sprintf("batch too large: size=%d limit=%d", e.Size, e.Limit)
}

// expectedUserBehaviorTypes: 호출자의 정상적인 실수로 간주되는 에러 타입들
var expectedUserBehaviorTypes = []func() any{
	func() any { return new(MalformedInputError) },
	func() any { return new(BatchTooLargeError) },
	func() any { return new(LexiconError) },
	func() any { return new(AccessDeniedError) },
}

// IsExpectedUserBehavior: 에러가 호출자의 예상된 실수인지 확인한다.
// (로그 레벨을 낮추고 4xx 로 응답하는 용도)
func IsExpectedUserBehavior(err error) bool {
	if err == nil {
		return false
	}
	for _, targetFn := range expectedUserBehaviorTypes {
		if errors.As(err, targetFn()) {
			return true
		}
	}
	return false
}
