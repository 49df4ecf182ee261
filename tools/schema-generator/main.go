package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/hydrotools/summaflow/pkg/ensemble"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&ensemble.Manifest{})
	schema.Title = "Summaflow Ensemble Manifest"
	schema.Description = "Schema for the YAML manifest passed to `summaflow ensemble`."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}
	if err := os.WriteFile("ensemble.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}
	log.Printf("Successfully generated manifest schema at ensemble.schema.json")
}
