package models

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Admin{},
		&Category{},
		&Product{},
		&ProductCategory{},
		&Cart{},
		&CartLine{},
		&Address{},
		&Order{},
		&OrderLine{},
	}
}
