package model

// All lists every table the store migrates, parents before children
func All() []interface{} {
	return []interface{}{
		// Catalog hierarchy
		&University{},
		&UniversityAlias{},
		&Department{},
		&DepartmentHead{},
		&Admin{},

		// Flattened catalog
		&CatalogEntry{},

		// People directory
		&Country{},
		&Person{},
		&EmailLog{},

		// Background jobs
		&CronJobLog{},
	}
}
