package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Generator generates Lua configuration code from Go structs.
type Generator struct {
	indent string // Indentation string (default: two spaces)
	now    func() time.Time
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ", // Two spaces
		now:    time.Now,
	}
}

// Generate generates Lua code from a Config struct.
// The output is formatted and human-readable, and parses back to config.
func (g *Generator) Generate(config *Config) (string, error) {
	if config == nil {
		return "", fmt.Errorf("config is required")
	}

	var buf bytes.Buffer

	// Write header comment
	buf.WriteString("-- qjsup configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(g.now().Format(time.RFC3339))
	buf.WriteString("\n--\n")
	buf.WriteString("-- The read-only `platform` table is available, e.g.\n")
	buf.WriteString("--   home = platform.is_macos and \"~/Library/Application Support/Kodi\" or \"~/.kodi\",\n\n")

	buf.WriteString(luaGlobalQJSUP + " = {\n")

	g.writeField(&buf, 1, luaFieldHome, g.quoteLuaString(config.Home))
	g.writeField(&buf, 1, luaFieldBaseURL, g.quoteLuaString(config.BaseURL))
	g.writeField(&buf, 1, luaFieldLanguage, g.quoteLuaString(config.Language))
	g.writeField(&buf, 1, luaFieldAssumeYes, strconv.FormatBool(config.AssumeYes))
	g.writeField(&buf, 1, luaFieldLogLevel, g.quoteLuaString(config.LogLevel))
	g.writeField(&buf, 1, luaFieldTimeout, strconv.FormatFloat(config.Timeout.Seconds(), 'f', -1, 64))

	if config.UserAgent != "" {
		g.writeField(&buf, 1, luaFieldUserAgent, g.quoteLuaString(config.UserAgent))
	}

	if config.Verify.Keyring != "" || config.Verify.Checksums != "" {
		g.writeVerify(&buf, config.Verify)
	}

	buf.WriteString("}\n")

	return buf.String(), nil
}

func (g *Generator) writeField(buf *bytes.Buffer, depth int, name, value string) {
	buf.WriteString(strings.Repeat(g.indent, depth))
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteString(",\n")
}

// writeVerify writes the verify section to the buffer.
func (g *Generator) writeVerify(buf *bytes.Buffer, verify Verify) {
	buf.WriteString(g.indent)
	buf.WriteString(luaFieldVerify + " = {\n")

	if verify.Keyring != "" {
		g.writeField(buf, 2, luaFieldKeyring, g.quoteLuaString(verify.Keyring))
	}
	if verify.Checksums != "" {
		g.writeField(buf, 2, luaFieldChecksums, g.quoteLuaString(verify.Checksums))
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	// Use double quotes and escape special characters
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"") // Escape double quotes
	s = strings.ReplaceAll(s, "\n", "\\n")  // Escape newlines
	s = strings.ReplaceAll(s, "\r", "\\r")  // Escape carriage returns
	s = strings.ReplaceAll(s, "\t", "\\t")  // Escape tabs
	return "\"" + s + "\""
}
