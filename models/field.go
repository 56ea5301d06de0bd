package models

// FieldRecord 上传字段模板中的一个供应商字段
type FieldRecord struct {
	ID        int64  `gorm:"primary_key;autoIncrement" json:"id"`
	FieldID   string `gorm:"type:varchar(64);uniqueIndex" json:"fieldId"`
	Label     string `gorm:"type:varchar(255)" json:"label"`
	TypeHint  string `gorm:"type:varchar(255)" json:"typeHint"`
	Sample    string `gorm:"type:varchar(255)" json:"sample"`
	Notes     string `gorm:"type:varchar(255)" json:"notes"`
	Color     string `gorm:"type:varchar(64)" json:"color"`
	SourceRow int    `json:"sourceRow"` // 模板中的行号，第一行为表头
}

func (FieldRecord) TableName() string {
	return "field_record"
}
