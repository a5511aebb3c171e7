package config

import (
	_ "embed"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/taobot/taobot/constants"
)

//go:embed taobot.schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Validate checks a decoded JSON document against the embedded config schema.
func Validate(doc any) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(constants.ConfigSchemaFile, schemaJSON)
	})
	if schemaErr != nil {
		return schemaErr
	}
	return compiledSchema.Validate(doc)
}
