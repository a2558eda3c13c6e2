// Package sqlexec runs validated read-only queries against Postgres
// over a pgx connection pool. It is the execution side of the
// NL-to-SQL pipeline: the model proposes SQL, the guard here decides
// whether it may run.
package sqlexec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotReadOnly is returned when a statement fails the read-only
// guard. The wrapped message names the offending construct.
var ErrNotReadOnly = errors.New("statement is not read-only")

// mutationKeywords are rejected anywhere outside string literals. The
// executor additionally runs inside a read-only transaction, so the
// guard is the first gate, not the only one.
var mutationKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create",
	"truncate", "grant", "revoke", "copy", "vacuum", "merge",
	"call", "do", "execute", "set", "reset", "listen", "notify",
}

// ValidateReadOnly rejects everything but a single SELECT (or WITH ...
// SELECT) statement.
func ValidateReadOnly(sql string) error {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
	if trimmed == "" {
		return fmt.Errorf("%w: empty statement", ErrNotReadOnly)
	}

	stripped := stripStringLiterals(trimmed)

	if strings.Contains(stripped, ";") {
		return fmt.Errorf("%w: multiple statements", ErrNotReadOnly)
	}

	first := firstWord(stripped)
	if first != "select" && first != "with" {
		return fmt.Errorf("%w: statement starts with %q", ErrNotReadOnly, first)
	}

	words := strings.FieldsFunc(strings.ToLower(stripped), func(r rune) bool {
		return !isWordRune(r)
	})
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}
	for _, kw := range mutationKeywords {
		if wordSet[kw] {
			return fmt.Errorf("%w: contains %q", ErrNotReadOnly, strings.ToUpper(kw))
		}
	}

	return nil
}

// stripStringLiterals blanks out single-quoted literal contents so
// keyword scanning does not trip on data values. Doubled quotes inside
// a literal stay inside it.
func stripStringLiterals(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))

	inLiteral := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if c == '\'' {
			if inLiteral && i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			inLiteral = !inLiteral
			b.WriteByte(c)
			continue
		}
		if inLiteral {
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func firstWord(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimLeft(fields[0], "("))
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
