package validator

import (
	"errors"
	"strings"
)

func ValidateType(s string) (string, error) {
	t := strings.TrimSpace(strings.ToLower(s))
	if t == "" {
		return "", errors.New("type is required")
	}
	return t, nil
}

func ValidateLatitude(lat float64) error {
	if lat < -90 || lat > 90 {
		return errors.New("latitude out of range")
	}
	return nil
}

func ValidateLongitude(long float64) error {
	if long < -180 || long > 180 {
		return errors.New("longitude out of range")
	}
	return nil
}

func ValidateHTTPMethod(m string) (string, error) {
	method := strings.ToUpper(strings.TrimSpace(m))
	switch method {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
		return method, nil
	}
	return "", errors.New("unsupported http method")
}
