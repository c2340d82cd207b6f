package valkeyx

import (
	"errors"
	"strings"

	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
)

// WrapRedisError: Valkey 에러를 공통 타입으로 감싼다.
func WrapRedisError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return cerrors.RedisError{Operation: operation, Err: err}
}

// IsNil: 키가 없음(nil 응답) 에러인지 확인한다. 래핑된 에러도 따라간다.
func IsNil(err error) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if valkey.IsValkeyNil(e) {
			return true
		}
	}
	return false
}

// IsBusyGroup: XGROUP CREATE 시 그룹이 이미 있을 때의 에러인지 확인한다.
func IsBusyGroup(err error) bool {
	return err != nil && strings.Contains(err.Error(), "BUSYGROUP")
}

// IsNoGroup: 스트림/그룹이 사라져 XREADGROUP 이 실패했는지 확인한다.
func IsNoGroup(err error) bool {
	return err != nil && strings.Contains(err.Error(), "NOGROUP")
}
