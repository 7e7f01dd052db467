package mcp

import (
	"fmt"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/azdo-mcp/internal/logger"
	"github.com/custodia-labs/azdo-mcp/internal/naming"
)

// addTool infers the input schema of In, checks the names the tool would
// publish and registers it. Nothing is registered if a name is invalid.
func addTool[In any](s *Server, tool *mcp.Tool, h mcp.ToolHandlerFor[In, any]) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("tool %s: input schema: %w", tool.Name, err)
	}
	if err := checkNames(tool.Name, schema); err != nil {
		return err
	}

	tool.InputSchema = schema
	mcp.AddTool(s.server, tool, h)
	s.tools = append(s.tools, tool.Name)
	return nil
}

// checkNames validates a tool name and its top-level input property names.
// Long property names only produce a warning.
func checkNames(toolName string, schema *jsonschema.Schema) error {
	if err := naming.ValidateOperationName(toolName); err != nil {
		return err
	}
	if schema == nil {
		return nil
	}

	fields := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		fields = append(fields, name)
	}
	slices.Sort(fields)

	for _, field := range fields {
		if err := naming.ValidateFieldName(field); err != nil {
			return fmt.Errorf("tool %s: %w", toolName, err)
		}
		if msg, long := naming.FieldNameWarning(field); long {
			logger.Warn("Tool %s: %s", toolName, msg)
		}
	}
	return nil
}
