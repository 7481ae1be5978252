package logger

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var secretPattern = regexp.MustCompile(`(?i)(key|token|secret)[=:]\s*[a-zA-Z0-9._/-]+`)

// SecurityLogger provides methods to safely log sensitive information
type SecurityLogger struct {
	*Logger
}

// NewSecurityLogger creates a new security-aware logger
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		Logger: GetLogger(),
	}
}

// MaskSecret hides a credential, keeping a short hash so two values can be told apart.
func (sl *SecurityLogger) MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return "***#" + sl.GenerateHash(secret)[:8]
}

// MaskCustomerID keeps the last four digits of an account id: 1234567890 -> ***-***-7890.
func (sl *SecurityLogger) MaskCustomerID(id string) string {
	digits := strings.ReplaceAll(id, "-", "")
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return "***-***-" + digits[len(digits)-4:]
}

// MaskAPIEndpoint masks API endpoints
func (sl *SecurityLogger) MaskAPIEndpoint(apiURL string) string {
	if apiURL == "" {
		return ""
	}

	parsedURL, err := url.Parse(apiURL)
	if err != nil || parsedURL.Host == "" {
		return "api-endpoint#" + sl.GenerateHash(apiURL)[:8]
	}

	return parsedURL.Host
}

// MaskKeywords reduces a keyword list to its size and a short sample.
func (sl *SecurityLogger) MaskKeywords(keywords []string) interface{} {
	if len(keywords) == 0 {
		return "no_keywords"
	}

	if len(keywords) <= 3 {
		return fmt.Sprintf("keywords_count=%d", len(keywords))
	}

	return fmt.Sprintf("keywords_count=%d,sample=[%s,%s,...]",
		len(keywords), keywords[0], keywords[1])
}

// MaskSensitiveData masks various types of sensitive data in a map
func (sl *SecurityLogger) MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	masked := make(map[string]interface{}, len(data))

	for key, value := range data {
		lowerKey := strings.ToLower(key)
		str, isString := value.(string)

		switch {
		case isString && (strings.Contains(lowerKey, "token") ||
			strings.Contains(lowerKey, "secret") ||
			strings.Contains(lowerKey, "password")):
			masked[key] = sl.MaskSecret(str)
		case isString && strings.Contains(lowerKey, "customer_id"):
			masked[key] = sl.MaskCustomerID(str)
		case isString && (strings.Contains(lowerKey, "endpoint") || strings.Contains(lowerKey, "url")):
			masked[key] = sl.MaskAPIEndpoint(str)
		case strings.Contains(lowerKey, "keyword"):
			if keywords, ok := value.([]string); ok {
				masked[key] = sl.MaskKeywords(keywords)
			} else {
				masked[key] = value
			}
		default:
			masked[key] = value
		}
	}

	return masked
}

// GenerateHash returns a hex digest of the first 8 bytes of sha256(data).
func (sl *SecurityLogger) GenerateHash(data string) string {
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8])
}

// MaskLogMessage masks sensitive information in log messages
func (sl *SecurityLogger) MaskLogMessage(message string) string {
	return secretPattern.ReplaceAllString(message, "${1}=***")
}

// SafeInfo logs info with automatic sensitive data masking
func (sl *SecurityLogger) SafeInfo(msg string, fields map[string]interface{}) {
	if fields != nil {
		sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Info(sl.MaskLogMessage(msg))
	} else {
		sl.Logger.Info(sl.MaskLogMessage(msg))
	}
}

// SafeError logs error with automatic sensitive data masking
func (sl *SecurityLogger) SafeError(msg string, err error, fields map[string]interface{}) {
	maskedFields := map[string]interface{}{
		"error": sl.MaskLogMessage(err.Error()),
	}

	for k, v := range sl.MaskSensitiveData(fields) {
		maskedFields[k] = v
	}

	sl.Logger.WithFields(maskedFields).Error(sl.MaskLogMessage(msg))
}

// SafeDebug logs debug with automatic sensitive data masking
func (sl *SecurityLogger) SafeDebug(msg string, fields map[string]interface{}) {
	if fields != nil {
		sl.Logger.WithFields(sl.MaskSensitiveData(fields)).Debug(sl.MaskLogMessage(msg))
	} else {
		sl.Logger.Debug(sl.MaskLogMessage(msg))
	}
}

// GetSecurityLogger returns a security logger bound to the current global logger.
func GetSecurityLogger() *SecurityLogger {
	return NewSecurityLogger()
}
