// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidAssignment is returned for a KEY=VALUE argument without a name or '='.
var ErrInvalidAssignment = errors.New("invalid environment assignment")

// LoadEnvFiles reads each dotenv file in order and returns the merged variables.
// Relative paths are resolved against baseDir (the working directory when empty).
// A path ending in '?' is optional and skipped when missing.
func LoadEnvFiles(paths []string, baseDir string) (map[string]string, error) {
	env := make(map[string]string)
	for _, p := range paths {
		if err := LoadEnvFile(env, p, baseDir); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// LoadEnvFile merges one dotenv file into env. Later files override earlier keys.
func LoadEnvFile(env map[string]string, path, baseDir string) error {
	path, optional := strings.CutSuffix(path, "?")

	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) {
		if baseDir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %w", err)
			}
			baseDir = wd
		}
		fullPath = filepath.Join(baseDir, fullPath)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	return ParseEnvFile(env, content, path)
}

// ParseEnvFile parses dotenv content into env.
//
// Blank lines and lines starting with '#' are ignored. Each remaining line is
// KEY=value with an optional "export " prefix. Double-quoted values support the
// escapes \n \r \t \\ \" \$; single-quoted values are literal; unquoted values
// lose a trailing " #comment".
func ParseEnvFile(env map[string]string, content []byte, filename string) error {
	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, raw, found := strings.Cut(line, "=")
		if !found {
			return fmt.Errorf("%s:%d: invalid format (missing '=')", filename, i+1)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%s:%d: empty variable name", filename, i+1)
		}

		value, err := parseEnvValue(raw)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", filename, i+1, err)
		}
		env[key] = value
	}
	return nil
}

// ParseAssignments parses KEY=VALUE arguments such as repeated --env flags.
func ParseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: %q (expected KEY=VALUE)", ErrInvalidAssignment, arg)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

func parseEnvValue(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", nil
	}

	switch value[0] {
	case '"':
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", errors.New("unterminated double quote")
		}
		return unescapeDoubleQuoted(value[1 : len(value)-1]), nil
	case '\'':
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", errors.New("unterminated single quote")
		}
		return value[1 : len(value)-1], nil
	}

	if before, _, ok := strings.Cut(value, " #"); ok {
		value = strings.TrimSpace(before)
	}
	return value, nil
}

var doubleQuoteEscapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
	'"':  '"',
	'$':  '$',
}

func unescapeDoubleQuoted(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i+1 == len(value) {
			b.WriteByte(c)
			continue
		}
		i++
		if repl, ok := doubleQuoteEscapes[value[i]]; ok {
			b.WriteByte(repl)
			continue
		}
		// unknown escape: keep it verbatim
		b.WriteByte('\\')
		b.WriteByte(value[i])
	}
	return b.String()
}
