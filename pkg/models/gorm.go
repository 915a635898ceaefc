package models

func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&NumberingConfig{},
		&MasterDocument{},
	}
}
