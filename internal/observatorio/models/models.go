// Package models defines the table-backed domain models of the observatory:
// countries, companies, products and services, demand surveys, sector events,
// technology trends, the company/trend join entity, and API users.
// Relations are declared statically in struct tags and migrated at startup.
package models

// Entity is implemented by every record exposed through the generic CRUD
// resources. PrimaryKey returns the integer surrogate key.
type Entity interface {
	PrimaryKey() uint
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&Country{},
		&Company{},
		&TechnologyTrend{},
		&ProductOrService{},
		&DemandSurvey{},
		&SectorEvent{},
		&CompanyTrend{},
		&User{},
	}
}
