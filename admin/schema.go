package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/iancoleman/strcase"

	"datagate/engine"
)

// columnTypes are the types the table editor offers. The engine is the
// authority on what a type means; the panel only constrains the choices.
var columnTypes = []string{"text", "number", "boolean", "timestamp", "json"}

func isColumnType(t string) bool {
	for _, ct := range columnTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// parseSchemaForm builds a TableSchema from the table editor's parallel
// column arrays. Table and column names are normalized to snake_case, so
// "Order Items" and "createdAt" become valid SQL identifiers downstream.
func parseSchemaForm(projectID string, form url.Values) (*engine.TableSchema, error) {
	tableName := strcase.ToSnake(strings.TrimSpace(form.Get("table_name")))
	if tableName == "" {
		return nil, errors.New("table name is required")
	}

	names := form["col_name"]
	types := form["col_type"]
	requireds := form["col_required"]
	defaults := form["col_default"]

	schema := &engine.TableSchema{
		ProjectID: projectID,
		Name:      tableName,
	}

	for i, rawName := range names {
		name := strcase.ToSnake(strings.TrimSpace(rawName))
		if name == "" {
			// Blank editor rows are allowed and skipped
			continue
		}

		column := engine.Column{Name: name, Type: "text"}
		if i < len(types) && isColumnType(types[i]) {
			column.Type = types[i]
		}
		if i < len(requireds) {
			column.Required = requireds[i] == "true"
		}
		if i < len(defaults) {
			column.Default = strings.TrimSpace(defaults[i])
		}

		schema.Columns = append(schema.Columns, column)
	}

	if len(schema.Columns) == 0 {
		return nil, errors.New("at least one column is required")
	}
	return schema, nil
}
