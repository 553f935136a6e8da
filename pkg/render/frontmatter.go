package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/logging"
	"gopkg.in/yaml.v3"
)

// SplitFrontmatter separates a leading "---" delimited block from the body.
// Values are returned as their literal text: a flow sequence such as
// `argument-hint: [message]` stays "[message]" rather than becoming a list.
// Content without a complete frontmatter block is returned unchanged.
func SplitFrontmatter(content []byte) (map[string]string, []byte) {
	if !bytes.HasPrefix(bytes.TrimSpace(content), []byte(delimiter)) {
		return map[string]string{}, content
	}
	parts := bytes.SplitN(content, []byte(delimiter), 3)
	if len(parts) < 3 {
		return map[string]string{}, content
	}

	body := bytes.TrimLeft(parts[2], "\n")
	return parseFields(parts[1]), body
}

func parseFields(block []byte) map[string]string {
	fields := map[string]string{}

	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		logger := logging.GetLogger("render")
		logger.Debug().Err(err).Msg("Frontmatter is not valid YAML, reading it line by line")
		return parseLines(block)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fields
	}

	lines := strings.Split(string(block), "\n")
	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if value.Kind == yaml.ScalarNode {
			fields[key.Value] = value.Value
			continue
		}
		// keep the source text of anything structured
		if value.Line-1 < len(lines) && value.Line == key.Line {
			line := lines[value.Line-1]
			if idx := strings.Index(line, ":"); idx >= 0 {
				fields[key.Value] = strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return fields
}

var fieldLine = regexp.MustCompile(`^(\w[\w-]*):\s*(.+)$`)

// parseLines reads "key: value" lines, unquoting matching outer quotes.
// Hand-written frontmatter is often not strict YAML.
func parseLines(block []byte) map[string]string {
	fields := map[string]string{}
	for _, line := range strings.Split(string(block), "\n") {
		m := fieldLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		if value == "" {
			continue
		}
		if q := value[0]; len(value) >= 2 && (q == '"' || q == '\'') && value[len(value)-1] == q {
			value = strings.ReplaceAll(value[1:len(value)-1], "\\"+string(q), string(q))
		}
		fields[m[1]] = value
	}
	return fields
}
