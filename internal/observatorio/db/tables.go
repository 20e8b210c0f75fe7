package db

import "gorm.io/gorm"

// Table definitions for every integer-keyed resource.
var (
	CompanyTable = Table{
		IDColumn: "id_empresa",
		Preloads: []string{"Country"},
		Search:   PrefixOn("nombre"),
	}
	ProductTable = Table{
		IDColumn: "id_producto",
		Preloads: []string{"Company"},
		Search:   PrefixOn("nombre"),
	}
	SurveyTable = Table{
		IDColumn: "id_encuesta",
		Preloads: []string{"Product", "Country"},
		Search:   surveysByProductName,
	}
	EventTable = Table{
		IDColumn: "id_evento",
		Preloads: []string{"Company"},
		Search:   PrefixOn("titulo"),
	}
	TrendTable = Table{
		IDColumn: "id_tendencia",
		Search:   PrefixOn("nombre"),
	}
)

// surveysByProductName matches surveys whose product name starts with the pattern.
func surveysByProductName(tx *gorm.DB, pattern string) *gorm.DB {
	return tx.Where(
		"id_producto IN (SELECT id_producto FROM productos_servicios WHERE LOWER(nombre) LIKE LOWER(?) ESCAPE '\\')",
		pattern,
	)
}
