package logging

import (
	"regexp"
)

var (
	// より具体的なパターンから適用する
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	// DSN 内のパスワード
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

	// クエリ文字列の api_key / api_secret (ConvertKit)
	queryKeyPattern = regexp.MustCompile(`(api_key|api_secret)=[^&\s"]+`)
)

// SanitizeError returns the error message with credentials masked.
// Use it whenever an adapter error is written to logs or printed by the CLI.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks API keys, DSN passwords and credential query parameters.
func SanitizeString(msg string) string {
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = queryKeyPattern.ReplaceAllString(msg, "$1=****")
	return msg
}
