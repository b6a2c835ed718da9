package provision

import (
	"regexp"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
)

const utf8BOM = "﻿"

// mysqlEngineInnoDB normalizes any casing/spacing of "ENGINE = INNODB" to a
// form that also pins ROW_FORMAT=DYNAMIC, matching what the teacher's own
// testcontainers MySQL profile configures server-side
// (innodb-default-row-format=DYNAMIC) so fixtures behave the same whether
// the row format came from the server default or an explicit clause.
var mysqlEngineInnoDB = regexp.MustCompile(`(?i)ENGINE\s*=\s*INNODB`)

// SplitStatements prepares script for execution: it strips a leading BOM,
// strips `--` line comments outside of single-quoted strings, rewrites
// MySQL's ENGINE clause, and splits on statement boundaries appropriate to
// dialect. The scanner is a quote-aware, straight-line character walk in
// the style of the teacher's internal/apply/analyzer.go; a full SQL parser
// is not an option here since the teacher's own TiDB AST parser only
// understands MySQL syntax and this package must split MSSQL/Oracle/DB2/
// Postgres batches too.
func SplitStatements(script string, dialect core.Dialect) []string {
	script = strings.TrimPrefix(script, utf8BOM)
	script = stripLineComments(script)
	if dialect == core.DialectMySQL {
		script = mysqlEngineInnoDB.ReplaceAllString(script, "ROW_FORMAT=DYNAMIC ENGINE=INNODB")
	}
	return splitOnBoundaries(script, dialect)
}

// stripLineComments removes "-- ..." comments that run to end of line,
// tracking single-quote depth so a literal containing "--" survives intact.
func stripLineComments(script string) string {
	var sb strings.Builder
	sb.Grow(len(script))
	inQuote := false
	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\'' {
			inQuote = !inQuote
			sb.WriteRune(r)
			continue
		}
		if !inQuote && r == '-' && i+1 < len(runes) && runes[i+1] == '-' {
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			if i < len(runes) {
				sb.WriteRune('\n')
			}
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// splitOnBoundaries splits on unquoted ';'. MSSQL additionally splits on a
// line containing only "GO"; Oracle additionally splits on a line
// containing only "/" (PL/SQL block terminator).
func splitOnBoundaries(script string, dialect core.Dialect) []string {
	var statements []string
	var current strings.Builder
	inQuote := false

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	lines := strings.Split(script, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if dialect == core.DialectMSSQL && strings.EqualFold(trimmed, "GO") {
			flush()
			continue
		}
		if dialect == core.DialectOracle && trimmed == "/" {
			flush()
			continue
		}

		for _, r := range line {
			if r == '\'' {
				inQuote = !inQuote
			}
			current.WriteRune(r)
			if r == ';' && !inQuote {
				flush()
			}
		}
		current.WriteRune('\n')
	}
	flush()
	return statements
}
