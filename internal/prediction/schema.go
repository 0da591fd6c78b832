package prediction

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchemaJSON only constrains probability. Every other field is decoded
// leniently by the parser.
const resultSchemaJSON = `{
  "type": "object",
  "required": ["probability"],
  "properties": {
    "probability": {
      "anyOf": [
        {"type": "number"},
        {"type": "string", "pattern": "^\\s*[-+]?([0-9]+\\.?[0-9]*|\\.[0-9]+)\\s*$"}
      ]
    }
  }
}`

var (
	resultSchemaOnce sync.Once
	resultSchema     *jsonschema.Schema
	resultSchemaErr  error
)

func compiledResultSchema() (*jsonschema.Schema, error) {
	resultSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("prediction_result.json", strings.NewReader(resultSchemaJSON)); err != nil {
			resultSchemaErr = fmt.Errorf("add result schema: %w", err)
			return
		}
		resultSchema, resultSchemaErr = compiler.Compile("prediction_result.json")
	})
	return resultSchema, resultSchemaErr
}
