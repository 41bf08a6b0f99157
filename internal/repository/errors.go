package repository

import "strings"

// isUniqueViolation reports a unique constraint failure (works for both SQLite and PostgreSQL).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

// likePattern builds a case-insensitive contains pattern for LIKE ... ESCAPE '\'.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
