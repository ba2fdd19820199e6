package api

import (
	"net/http"

	"carnorm/internal/version"
)

func (s *Server) handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowed(w, http.MethodGet)
		return
	}

	WriteJSON(w, GenerateOpenAPISpec(), http.StatusOK)
}

func errorResponse(description string) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{"$ref": "#/components/schemas/Error"},
			},
		},
	}
}

// GenerateOpenAPISpec generates the OpenAPI specification for the API
func GenerateOpenAPISpec() map[string]interface{} {
	nullableString := map[string]interface{}{"type": "string", "nullable": true}

	return map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "carnorm HTTP API",
			"version":     version.Version,
			"description": "Normalizes loosely typed car records into canonical, sorted JSON",
		},
		"paths": map[string]interface{}{
			"/v1/normalize": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Normalize a batch",
					"description": "Coerces every record, sorts by model year, horsepower and name, and renders the result. The body may be gzip or zstd compressed.",
					"parameters": []map[string]interface{}{
						{
							"name":        "format",
							"in":          "query",
							"description": "Output format",
							"schema": map[string]interface{}{
								"type":    "string",
								"enum":    []string{"json", "yaml", "toml"},
								"default": "json",
							},
						},
						{
							"name":        "indent",
							"in":          "query",
							"description": "Pretty-print JSON output",
							"schema":      map[string]interface{}{"type": "boolean"},
						},
					},
					"requestBody": map[string]interface{}{
						"required": true,
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type":  "array",
									"items": map[string]interface{}{"type": "object"},
								},
							},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Canonical records, sorted",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type":  "array",
										"items": map[string]interface{}{"$ref": "#/components/schemas/Car"},
									},
								},
								"application/yaml": map[string]interface{}{},
								"application/toml": map[string]interface{}{},
							},
						},
						"400": errorResponse("Input is not a JSON array of objects, or a parameter is invalid"),
						"413": errorResponse("Request body too large"),
						"422": errorResponse("A record has a malformed field"),
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":   "Health check",
					"responses": map[string]interface{}{"200": map[string]interface{}{"description": "Server is healthy"}},
				},
			},
			"/version": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":   "Build information",
					"responses": map[string]interface{}{"200": map[string]interface{}{"description": "Version, commit and build date"}},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":   "Prometheus metrics",
					"responses": map[string]interface{}{"200": map[string]interface{}{"description": "Metrics in text exposition format"}},
				},
			},
		},
		"components": map[string]interface{}{
			"schemas": map[string]interface{}{
				"Car": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":           map[string]interface{}{"type": "string"},
						"efficiency":     map[string]interface{}{"type": "number"},
						"displacement":   nullableString,
						"horsepower":     map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
						"weight":         map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 65535},
						"cylinder_count": map[string]interface{}{"type": "integer", "format": "int32"},
						"model_year":     map[string]interface{}{"type": "string", "format": "date", "nullable": true},
						"acceleration":   map[string]interface{}{"type": "integer", "format": "int64"},
					},
				},
				"Error": map[string]interface{}{
					"type":     "object",
					"required": []string{"error", "code"},
					"properties": map[string]interface{}{
						"error":  map[string]interface{}{"type": "string"},
						"code":   map[string]interface{}{"type": "string"},
						"field":  map[string]interface{}{"type": "string"},
						"record": map[string]interface{}{"type": "integer"},
					},
				},
			},
		},
	}
}
