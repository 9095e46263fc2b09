package salesforce

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrQueryArguments is returned when placeholders and arguments do not line up
var ErrQueryArguments = errors.New("salesforce: query placeholder mismatch")

// BuildQuery binds each ? in template to the next argument as a SOQL literal.
// Templates must not contain ? anywhere other than placeholders.
func BuildQuery(template string, args ...any) (string, error) {
	var b strings.Builder
	b.Grow(len(template) + 16*len(args))

	next := 0
	for _, r := range template {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		if next >= len(args) {
			return "", fmt.Errorf("%w: more placeholders than arguments", ErrQueryArguments)
		}
		lit, err := literal(args[next])
		if err != nil {
			return "", err
		}
		b.WriteString(lit)
		next++
	}
	if next != len(args) {
		return "", fmt.Errorf("%w: %d arguments for %d placeholders", ErrQueryArguments, len(args), next)
	}
	return b.String(), nil
}

func literal(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case string:
		return quote(x), nil
	case uuid.UUID:
		return quote(x.String()), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case decimal.Decimal:
		return x.String(), nil
	case time.Time:
		return x.UTC().Format("2006-01-02T15:04:05Z"), nil
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = quote(s)
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	default:
		return "", fmt.Errorf("%w: unsupported argument type %T", ErrQueryArguments, v)
	}
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// quote returns s as a single-quoted SOQL string literal
func quote(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}
