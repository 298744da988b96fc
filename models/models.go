package models

// All lists every persisted model in dependency order, ready for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&Contractor{},
		&DeviceType{},
		&DeviceBrand{},
		&DeviceModel{},
		&AdvertisingSource{},
		&Accessory{},
		&Order{},
		&OrderAccessory{},
		&OrderStatus{},
		&PrintTemplate{},
		&Product{},
		&Service{},
		&User{},
		&Malfunction{},
		&Unit{},
		&MoneyItem{},
	}
}
