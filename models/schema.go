package models

import "gorm.io/datatypes"

// MySchema 存储上传的JSON Schema文档
type MySchema struct {
	ID          int64          `gorm:"primary_key;autoIncrement" json:"id"`
	SchemaKey   string         `gorm:"type:varchar(64);uniqueIndex" json:"schemaKey"`
	Name        string         `gorm:"type:varchar(255)" json:"name"`
	RawSchema   datatypes.JSON `gorm:"type:jsonb" json:"-"`
	UpdatedDate string         `gorm:"type:varchar(64)" json:"updatedDate"`
}

func (MySchema) TableName() string {
	return "my_schema"
}
