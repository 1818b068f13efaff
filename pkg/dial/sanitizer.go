package dial

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/dialcode/pkg/domain"
)

var (
	// DefaultMaxInputSize is the USSD payload limit in bytes.
	DefaultMaxInputSize = 182
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "DIALCODE_MAX_INPUT_SIZE"
)

// SanitizeInput cleans gateway input by enforcing the size limit,
// validating UTF-8 and stripping control characters.
// Rejections wrap domain.ErrInputRejected.
func SanitizeInput(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Reject rather than truncate: a truncated dial string may classify differently.
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrInputRejected, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", fmt.Errorf("%w: invalid UTF-8", domain.ErrInputRejected)
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
