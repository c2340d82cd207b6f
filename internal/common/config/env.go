package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// lookupFirst: 키 목록에서 공백이 아닌 값을 가진 첫 번째 키와 값을 반환합니다.
func lookupFirst(keys ...string) (string, string, bool) {
	for _, key := range keys {
		rawValue, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		rawValue = strings.TrimSpace(rawValue)
		if rawValue == "" {
			continue
		}
		return key, rawValue, true
	}
	return "", "", false
}

// parseFirst: 첫 번째로 값이 있는 키를 parse 로 변환합니다. 값이 없으면 defaultValue.
func parseFirst[T any](keys []string, defaultValue T, kind string, parse func(string) (T, error)) (T, error) {
	key, rawValue, ok := lookupFirst(keys...)
	if !ok {
		return defaultValue, nil
	}
	value, err := parse(rawValue)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("invalid %s env %s=%q: %w", kind, key, rawValue, err)
	}
	return value, nil
}

func parseInt64(raw string) (int64, error) { return strconv.ParseInt(raw, 10, 64) }

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("not a bool")
	}
}

// IntFromEnv: 환경 변수에서 정수 값을 읽어옵니다.
func IntFromEnv(key string, defaultValue int) (int, error) {
	return parseFirst([]string{key}, defaultValue, "int", strconv.Atoi)
}

// Int64FromEnv: 환경 변수에서 64비트 정수 값을 읽어옵니다.
func Int64FromEnv(key string, defaultValue int64) (int64, error) {
	return parseFirst([]string{key}, defaultValue, "int64", parseInt64)
}

// Float64FromEnv: 환경 변수에서 64비트 실수 값을 읽어옵니다.
func Float64FromEnv(key string, defaultValue float64) (float64, error) {
	return parseFirst([]string{key}, defaultValue, "float64", func(raw string) (float64, error) {
		return strconv.ParseFloat(raw, 64)
	})
}

// BoolFromEnv: 환경 변수에서 불리언 값을 읽어옵니다. (true/1/yes/y, false/0/no/n)
func BoolFromEnv(key string, defaultValue bool) (bool, error) {
	return parseFirst([]string{key}, defaultValue, "bool", parseBool)
}

// StringFromEnv: 환경 변수에서 문자열 값을 읽어옵니다.
func StringFromEnv(key string, defaultValue string) string {
	return StringFromEnvFirstNonEmpty([]string{key}, defaultValue)
}

// DurationSecondsFromEnv: 초 단위 환경 변수를 Duration 으로 읽습니다. 음수는 에러.
func DurationSecondsFromEnv(key string, defaultSeconds int64) (time.Duration, error) {
	return durationFromEnv(key, defaultSeconds, time.Second)
}

// DurationMillisFromEnv: 밀리초 단위 환경 변수를 Duration 으로 읽습니다. 음수는 에러.
func DurationMillisFromEnv(key string, defaultMillis int64) (time.Duration, error) {
	return durationFromEnv(key, defaultMillis, time.Millisecond)
}

func durationFromEnv(key string, defaultValue int64, unit time.Duration) (time.Duration, error) {
	value, err := Int64FromEnv(key, defaultValue)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid duration env %s=%d", key, value)
	}
	return time.Duration(value) * unit, nil
}

// StringFromEnvFirstNonEmpty: 여러 환경 변수 키 중 첫 번째로 값이 존재하는 것을 반환합니다.
func StringFromEnvFirstNonEmpty(keys []string, defaultValue string) string {
	if _, rawValue, ok := lookupFirst(keys...); ok {
		return rawValue
	}
	return defaultValue
}

// IntFromEnvFirstNonEmpty: 여러 환경 변수 키 중 첫 번째로 값이 존재하는 정수를 반환합니다.
func IntFromEnvFirstNonEmpty(keys []string, defaultValue int) (int, error) {
	return parseFirst(keys, defaultValue, "int", strconv.Atoi)
}

// Int64FromEnvFirstNonEmpty: 여러 환경 변수 키 중 첫 번째로 값이 존재하는 64비트 정수를 반환합니다.
func Int64FromEnvFirstNonEmpty(keys []string, defaultValue int64) (int64, error) {
	return parseFirst(keys, defaultValue, "int64", parseInt64)
}

// BoolFromEnvFirstNonEmpty: 여러 환경 변수 키 중 첫 번째로 값이 존재하는 불리언을 반환합니다.
func BoolFromEnvFirstNonEmpty(keys []string, defaultValue bool) (bool, error) {
	return parseFirst(keys, defaultValue, "bool", parseBool)
}
