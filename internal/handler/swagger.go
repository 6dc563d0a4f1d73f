package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bolsillo/bolsillo-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

var defaultServers = []Server{
	{URL: "http://localhost:8080/api/v1", Description: "Local Development"},
}

// transformRefs recursively rewrites $ref from #/definitions/ to #/components/schemas/
func transformRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = transformRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

// transformParameter converts a Swagger 2.0 non-body parameter to OpenAPI 3.0 format
func transformParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	// Build schema object from type-related fields
	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = transformRefs(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}

	return result
}

// transformOperation moves the body parameter into requestBody and wraps
// response schemas in a JSON content entry
func transformOperation(op map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(op))
	for key, value := range op {
		if key != "parameters" && key != "responses" {
			result[key] = transformRefs(value)
		}
	}

	if params, ok := op["parameters"].([]interface{}); ok {
		var converted []interface{}
		for _, p := range params {
			param, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if param["in"] == "body" {
				body := map[string]interface{}{
					"content": map[string]interface{}{
						"application/json": map[string]interface{}{"schema": transformRefs(param["schema"])},
					},
				}
				if required, ok := param["required"]; ok {
					body["required"] = required
				}
				if description, ok := param["description"]; ok {
					body["description"] = description
				}
				result["requestBody"] = body
				continue
			}
			converted = append(converted, transformParameter(param))
		}
		if len(converted) > 0 {
			result["parameters"] = converted
		}
	}

	if responses, ok := op["responses"].(map[string]interface{}); ok {
		out := make(map[string]interface{}, len(responses))
		for code, r := range responses {
			resp, ok := r.(map[string]interface{})
			if !ok {
				out[code] = r
				continue
			}
			converted := map[string]interface{}{"description": resp["description"]}
			if schema, ok := resp["schema"]; ok {
				converted["content"] = map[string]interface{}{
					"application/json": map[string]interface{}{"schema": transformRefs(schema)},
				}
			}
			out[code] = converted
		}
		result["responses"] = out
	}

	return result
}

// convertToOpenAPI3 converts a swag generated Swagger 2.0 document
func convertToOpenAPI3(doc []byte, servers []Server) (OpenAPI3Spec, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal(doc, &swagger2); err != nil {
		return OpenAPI3Spec{}, err
	}

	info, _ := swagger2["info"].(map[string]interface{})

	paths := make(map[string]interface{})
	if rawPaths, ok := swagger2["paths"].(map[string]interface{}); ok {
		for path, item := range rawPaths {
			methods, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			converted := make(map[string]interface{}, len(methods))
			for method, op := range methods {
				if operation, ok := op.(map[string]interface{}); ok {
					converted[method] = transformOperation(operation)
				}
			}
			paths[path] = converted
		}
	}

	components := make(map[string]interface{})
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = transformRefs(definitions)
	}

	return OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      paths,
		Components: components,
	}, nil
}

// ServeOpenAPI3Spec serves the swagger spec converted to OpenAPI 3.0
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read swagger doc")
	}

	spec, err := convertToOpenAPI3([]byte(doc), defaultServers)
	if err != nil {
		return NewInternalError(c, "Failed to parse swagger doc")
	}

	return c.JSON(http.StatusOK, spec)
}
