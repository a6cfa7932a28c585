package utils

import (
	"encoding/json"
	"strconv"
)

func ConvertString(data interface{}) string {
	out, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(out)
}

func ConvertInt(data interface{}) int {
	switch v := data.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
