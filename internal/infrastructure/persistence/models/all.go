package models

// All returns every persistence model, in dependency order, for AutoMigrate
// in tests and local tooling.
func All() []any {
	return []any{
		&UserModel{},
		&ProductModel{},
		&ReviewModel{},
		&OrderModel{},
		&OrderItemModel{},
		&MessageModel{},
		&ResponseModel{},
	}
}
