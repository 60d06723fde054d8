package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caljson/weightcert/dto"
)

func TestValidateAgainstSchema(t *testing.T) {
	schema := []byte(`{
		"type": "object",
		"required": ["rows"],
		"properties": {
			"rows": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["serialNumber", "nominalValueG"]
				}
			}
		}
	}`)

	export := dto.RowsExport{Rows: []dto.CanonicalRow{
		{SerialNumber: "WFS 151", NominalValueG: "20000", ActualBeforeG: "-", ActualAfterG: "19998.5", UncertaintyG: "0.5"},
	}}

	assert.NoError(t, ValidateAgainstSchema(schema, export))
}

func TestValidateAgainstSchemaFailure(t *testing.T) {
	schema := []byte(`{"type":"object","properties":{"rows":{"type":"string"}}}`)

	err := ValidateAgainstSchema(schema, dto.RowsExport{Rows: []dto.CanonicalRow{}})
	assert.Error(t, err)
}

func TestValidateAgainstSchemaBadSchema(t *testing.T) {
	err := ValidateAgainstSchema([]byte("{not json"), dto.RowsExport{})
	assert.Error(t, err)
}
