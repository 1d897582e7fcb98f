package utils

import (
	"crypto/md5"
	"fmt"
	"strconv"
)

// ToString converts an arbitrary scalar to its string form, falling
// back to defaultValue for nil.
func ToString(value interface{}, defaultValue string) string {
	switch v := value.(type) {
	case nil:
		return defaultValue
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func ToInt(value interface{}, defaultValue int) int {
	return int(ToInt64(value, int64(defaultValue)))
}

func ToInt64(value interface{}, defaultValue int64) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(f)
		}
		return defaultValue
	case []byte:
		return ToInt64(string(v), defaultValue)
	default:
		return defaultValue
	}
}

func ToFloat(value interface{}, defaultValue float64) float64 {
	switch v := value.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return defaultValue
	case []byte:
		return ToFloat(string(v), defaultValue)
	default:
		return defaultValue
	}
}

func ToBool(value interface{}, defaultValue bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return defaultValue
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return defaultValue
	}
}

// Md5 returns the hex md5 digest of the input. Used to derive short
// stable prefixes for online table names.
func Md5(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}
