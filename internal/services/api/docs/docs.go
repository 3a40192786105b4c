// Package docs registers the OpenAPI document served under /api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "servers": [{"url": "{{.BasePath}}"}],
  "paths": {
    "/convert/xml": {
      "post": {
        "tags": ["Convert"],
        "summary": "Convert delimited text to XML",
        "description": "The body is the delimited text including its header row. Columns named CUEX_* are nested under the extensions element.",
        "parameters": [
          {"name": "delimiter", "in": "query", "schema": {"type": "string", "default": ","}, "description": "field delimiter or tab, comma, semicolon, pipe, space"},
          {"name": "root", "in": "query", "schema": {"type": "string", "default": "Records"}},
          {"name": "record", "in": "query", "schema": {"type": "string", "default": "Record"}},
          {"name": "extensions", "in": "query", "schema": {"type": "string", "default": "CustomerExtensions"}},
          {"name": "indent", "in": "query", "schema": {"type": "string"}, "description": "indent per level, spaces or tabs"},
          {"name": "strict", "in": "query", "schema": {"type": "boolean"}, "description": "reject rows whose field count differs from the header"},
          {"name": "lazy_quotes", "in": "query", "schema": {"type": "boolean"}},
          {"name": "trim_space", "in": "query", "schema": {"type": "boolean"}},
          {"name": "repair", "in": "query", "schema": {"type": "boolean"}, "description": "rewrite illegal column names instead of failing"},
          {"name": "xml_header", "in": "query", "schema": {"type": "boolean", "default": true}}
        ],
        "requestBody": {
          "required": true,
          "content": {"text/csv": {"schema": {"type": "string"}, "example": "id,name,CUEX_color\n1,bob,red\n"}}
        },
        "responses": {
          "200": {
            "description": "XML document",
            "headers": {
              "X-Conversion-ID": {"schema": {"type": "string", "format": "uuid"}},
              "X-Rows": {"schema": {"type": "integer"}}
            },
            "content": {"application/xml": {"schema": {"type": "string"}}}
          },
          "413": {"description": "Request Entity Too Large", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
        }
      }
    },
    "/convert/schema": {
      "post": {
        "tags": ["Convert"],
        "summary": "Report the column partition of a header row",
        "parameters": [
          {"name": "delimiter", "in": "query", "schema": {"type": "string", "default": ","}}
        ],
        "requestBody": {"required": true, "content": {"text/csv": {"schema": {"type": "string"}}}},
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/SchemaView"}}}}
        }
      }
    },
    "/convert/classify": {
      "post": {
        "tags": ["Convert"],
        "summary": "Classify pre-split rows into standard and extension fields",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ClassifyInput"}}}},
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ClassifyOutput"}}}}
        }
      }
    },
    "/meta/health": {
      "get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}
    },
    "/meta/version": {
      "get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}
    },
    "/meta/uptime": {
      "get": {"tags": ["Meta"], "summary": "Service start time and uptime in seconds", "responses": {"200": {"description": "ok"}}}
    }
  },
  "components": {
    "schemas": {
      "Field": {
        "type": "object",
        "properties": {"tag": {"type": "string"}, "value": {"type": "string"}}
      },
      "Column": {
        "type": "object",
        "properties": {
          "index": {"type": "integer"},
          "name": {"type": "string", "example": "CUEX_color"},
          "tag": {"type": "string", "example": "color"},
          "extension": {"type": "boolean"}
        }
      },
      "SchemaView": {
        "type": "object",
        "properties": {
          "columns": {"type": "array", "items": {"$ref": "#/components/schemas/Column"}},
          "standard_indices": {"type": "array", "items": {"type": "integer"}},
          "extension_indices": {"type": "array", "items": {"type": "integer"}}
        }
      },
      "ClassifyInput": {
        "type": "object",
        "required": ["header"],
        "properties": {
          "header": {"type": "array", "items": {"type": "string"}, "example": ["id", "name", "CUEX_color"]},
          "rows": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}, "example": [["1", "bob", "red"]]}
        }
      },
      "ClassifiedRow": {
        "type": "object",
        "properties": {
          "standard": {"type": "array", "items": {"$ref": "#/components/schemas/Field"}},
          "extensions": {"type": "array", "items": {"$ref": "#/components/schemas/Field"}}
        }
      },
      "ClassifyOutput": {
        "type": "object",
        "properties": {
          "schema": {"$ref": "#/components/schemas/SchemaView"},
          "rows": {"type": "array", "items": {"$ref": "#/components/schemas/ClassifiedRow"}}
        }
      }
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "csv2xml API",
	Description:      "Converts delimited text with CUEX_ customer extension columns to XML.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
