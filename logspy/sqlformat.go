package logspy

import (
	"database/sql/driver"
	"strings"
	"unicode/utf8"

	"github.com/kaldera-labs/sqlspy-go/dialect"
)

// formatSQL renders query for the log: bound arguments substituted as
// dialect-formatted literals, trimming and blank-line cosmetics
// applied, long lines broken, and the optional trailing semicolon
// added.
func formatSQL(query string, args []driver.NamedValue, d dialect.Dialect, cfg Config) string {
	sql := query
	if len(args) > 0 {
		sql = bindArgs(sql, args, d, cfg.BooleanAsText)
	}
	switch {
	case cfg.TrimSQLLines:
		sql = trimLines(sql)
	case cfg.TrimSQL:
		sql = strings.TrimSpace(sql)
	}
	if cfg.TrimExtraBlankLines {
		sql = collapseBlankLines(sql)
	}
	if cfg.MaxLineLength > 0 {
		sql = wrapLines(sql, cfg.MaxLineLength)
	}
	if cfg.AddSemicolon {
		sql += ";"
	}
	return sql
}

// bindArgs substitutes each ? placeholder with the dialect-formatted
// literal of the corresponding argument, for the dump only. Queries
// using named or numbered placeholders get the values appended as a
// comment instead, since positional substitution would be wrong there.
func bindArgs(query string, args []driver.NamedValue, d dialect.Dialect, boolAsText bool) string {
	if !strings.Contains(query, "?") {
		values := make([]string, len(args))
		for i, a := range args {
			values[i] = dialect.FormatValue(d, a.Value, boolAsText)
		}
		return query + " /* " + strings.Join(values, ", ") + " */"
	}

	var b strings.Builder
	b.Grow(len(query))
	next := 0
	for _, r := range query {
		if r == '?' && next < len(args) {
			b.WriteString(dialect.FormatValue(d, args[next].Value, boolAsText))
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// trimLines trims every line, discarding leading and trailing
// whitespace per line while keeping the line structure.
func trimLines(sql string) string {
	lines := strings.Split(sql, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// collapseBlankLines reduces runs of two or more whitespace-only lines
// to a single blank line.
func collapseBlankLines(sql string) string {
	lines := strings.Split(sql, "\n")
	out := lines[:0]
	blanks := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// wrapLines breaks lines longer than max, preferring the last space
// before the limit and falling back to a hard break for unbroken runs.
// Hard breaks land on rune boundaries so multibyte characters are never
// split mid-sequence.
func wrapLines(sql string, max int) string {
	lines := strings.Split(sql, "\n")
	var out []string
	for _, line := range lines {
		wrapped := false
		for len(line) > max {
			cut := strings.LastIndex(line[:max], " ")
			if cut <= 0 {
				cut = max
				for cut > 0 && !utf8.RuneStart(line[cut]) {
					cut--
				}
				if cut == 0 {
					// A single rune wider than the limit; emit it whole.
					_, cut = utf8.DecodeRuneInString(line)
				}
			}
			out = append(out, strings.TrimRight(line[:cut], " "))
			line = strings.TrimLeft(line[cut:], " ")
			wrapped = true
		}
		if line != "" || !wrapped {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
