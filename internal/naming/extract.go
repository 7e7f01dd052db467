package naming

import (
	"bufio"
	"regexp"
	"strings"
)

// DefaultSchemaBuilder is the identifier of the schema builder whose
// constructors mark field declarations (zod's "z" in TypeScript tool sources).
const DefaultSchemaBuilder = "z"

var (
	// bindingPattern matches a line opening an object or map literal bound to
	// a name, e.g. `export const CODE_TOOLS = {` or `var searchTools = map[string]string{`.
	bindingPattern = regexp.MustCompile(
		`^\s*(?:export\s+)?(?:(?:const|let|var)\s+)?([A-Za-z_$][\w$]*)\s*(?::\s*[^=]+?)?\s*:?=\s*(?:map\[[^\]]*\]\S*?\s*)?\{\s*$`)

	// entryPattern matches a `key: "value"` line. Keys may be identifiers or
	// quoted strings; only string literal values are captured.
	entryPattern = regexp.MustCompile(
		"^\\s*(?:[A-Za-z_$][\\w$]*|\"[^\"]*\"|'[^']*')\\s*:\\s*(?:\"([^\"]*)\"|'([^']*)'|`([^`]*)`)\\s*,?\\s*(?://.*)?$")
)

// Extractor scans source text for exposed identifiers.
//
// It is a best-effort, line-oriented scan and not a parser. Entries must start
// on their own line, braces inside string literals are counted as structure,
// and single-line literals are ignored. Deliberately obfuscated input can be
// both under- and over-matched; the lint command only needs an approximate
// safety net.
type Extractor struct {
	// SchemaBuilder is the identifier whose constructor calls mark field
	// declarations, e.g. "z" for `name: z.string()`.
	SchemaBuilder string

	fieldPattern *regexp.Regexp
}

// NewExtractor returns an Extractor for the given schema builder.
// An empty builder falls back to DefaultSchemaBuilder.
func NewExtractor(schemaBuilder string) *Extractor {
	if schemaBuilder == "" {
		schemaBuilder = DefaultSchemaBuilder
	}
	return &Extractor{
		SchemaBuilder: schemaBuilder,
		fieldPattern: regexp.MustCompile(
			`^\s*([A-Za-z_$][\w$]*)\s*:\s*` + regexp.QuoteMeta(schemaBuilder) + `\.\w+\(`),
	}
}

var defaultExtractor = NewExtractor(DefaultSchemaBuilder)

// ExtractOperationNames returns operation names using the default extractor.
func ExtractOperationNames(src string) []string {
	return defaultExtractor.OperationNames(src)
}

// ExtractFieldNames returns field names using the default extractor.
func ExtractFieldNames(src string) []string {
	return defaultExtractor.FieldNames(src)
}

// OperationNames returns, in declaration order, the string values of the
// top-level entries of every literal bound to a name containing "tools"
// (any casing). Non-string values and unquoted entries are skipped.
func (e *Extractor) OperationNames(src string) []string {
	var names []string
	depth := 0

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if depth == 0 {
			m := bindingPattern.FindStringSubmatch(line)
			if m != nil && strings.Contains(strings.ToLower(m[1]), "tools") {
				depth = 1
			}
			continue
		}

		if depth == 1 {
			if m := entryPattern.FindStringSubmatch(line); m != nil {
				names = append(names, m[1]+m[2]+m[3])
				continue
			}
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
	}

	return names
}

// FieldNames returns, in order of appearance, the keys that are immediately
// followed by a schema builder constructor call, e.g. `project: z.array(`.
func (e *Extractor) FieldNames(src string) []string {
	pattern := e.fieldPattern
	if pattern == nil {
		pattern = NewExtractor(e.SchemaBuilder).fieldPattern
	}

	var names []string
	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if m := pattern.FindStringSubmatch(scanner.Text()); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}
