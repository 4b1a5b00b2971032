// Package display holds the pure formatting helpers used to render account
// identity and quota information.
package display

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// InitialsPlaceholder is rendered when an account has no usable name.
const InitialsPlaceholder = "U"

var units = []string{"Bytes", "KB", "MB", "GB", "TB"}

// Initials derives the avatar initials from a display name: the first letter
// of the first and last whitespace-separated tokens, uppercased. Single-token
// names yield one letter.
func Initials(name string) string {
	tokens := strings.Fields(name)
	switch len(tokens) {
	case 0:
		return InitialsPlaceholder
	case 1:
		return strings.ToUpper(firstLetter(tokens[0]))
	}
	return strings.ToUpper(firstLetter(tokens[0]) + firstLetter(tokens[len(tokens)-1]))
}

// FirstName returns the leading whitespace-separated token of a name.
func FirstName(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// StorageSize renders a byte count on the binary unit ladder with two
// decimal places. Zero is special-cased to the quota unit.
func StorageSize(bytes int64) string {
	if bytes == 0 {
		return "0 GB"
	}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}

	value := float64(bytes) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%.2f %s", value, units[i])
}

// StoragePercent returns used/limit as a rounded integer percentage.
func StoragePercent(used, limit int64) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Round(float64(used) / float64(limit) * 100))
}

func firstLetter(token string) string {
	r, _ := utf8.DecodeRuneInString(token)
	return string(r)
}
