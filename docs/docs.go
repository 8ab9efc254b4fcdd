// Package docs expone la especificación OpenAPI de la API (swagger.json) a swaggo/swag.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var doc string

// SwaggerInfo metadatos de la especificación.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Warehouse Ledger API",
	Description:      "Libro de inventario de almacén: stock por producto, historial de movimientos y reportes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  doc,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
