package respond

import "regexp"

var (
	bearerPattern      = regexp.MustCompile(`(?i)bearer\s+[a-z0-9._~+/=-]+`)
	accessTokenPattern = regexp.MustCompile(`(?i)(access_token|token|api_key)=[^&\s"]+`)
	// DSN and Redis URL credentials
	urlPasswordPattern = regexp.MustCompile(`://([^:/@\s]*):([^@\s]+)@`)
)

// SanitizeError returns the message of err with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = accessTokenPattern.ReplaceAllString(msg, "$1=****")
	msg = urlPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
