package jisho

import (
	"github.com/xeipuuv/gojsonschema"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

// apiResponse is the body of /api/v1/search/words. Entries are decoded
// straight into domain.Entry: the field names match.
type apiResponse struct {
	Data []domain.Entry `json:"data"`
}

// responseSchema is the shape every response must have before it is
// trusted. Unknown fields are allowed; jisho.org returns many more.
const responseSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["slug", "senses", "japanese"],
				"properties": {
					"slug": {"type": "string"},
					"is_common": {"type": "boolean"},
					"senses": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["english_definitions", "parts_of_speech"],
							"properties": {
								"english_definitions": {"type": "array", "items": {"type": "string"}},
								"parts_of_speech": {"type": "array", "items": {"type": "string"}}
							}
						}
					},
					"japanese": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"word": {"type": "string"},
								"reading": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

var schema = mustSchema(responseSchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("jisho: invalid response schema: " + err.Error())
	}
	return s
}
