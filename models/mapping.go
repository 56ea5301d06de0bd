package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// OutputSpec 映射的输出转换描述
type OutputSpec struct {
	Label      string `json:"label"`
	Expression string `json:"expression"`
}

// FieldAttrs 映射保存时字段属性的冗余快照，字段记录本身不跨会话保留
type FieldAttrs struct {
	TypeHint string `json:"typeHint,omitempty"`
	Sample   string `json:"sample,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Color    string `json:"color,omitempty"`
}

// MappingRecord 字段到Schema树节点的持久映射
type MappingRecord struct {
	ID             int64          `gorm:"primary_key;autoIncrement" json:"id"`
	SchemaKey      string         `gorm:"type:varchar(64);index:idx_mapping_schema" json:"schemaKey"`
	TargetNodeID   string         `gorm:"type:varchar(1024);index" json:"targetNodeId"`
	NodeName       string         `gorm:"type:varchar(255)" json:"nodeName"`
	NodeType       string         `gorm:"type:varchar(64)" json:"nodeType"`
	FieldID        string         `gorm:"type:varchar(64)" json:"fieldId"`
	FieldLabel     string         `gorm:"type:varchar(255)" json:"fieldLabel"`
	FieldAttrs     datatypes.JSON `gorm:"type:jsonb" json:"fieldAttrs"`
	MappingDetails string         `gorm:"type:text" json:"mappingDetails"`
	Outputs        datatypes.JSON `gorm:"type:jsonb" json:"outputs"`
	Timestamp      string         `gorm:"type:varchar(64)" json:"timestamp"`
}

func (MappingRecord) TableName() string {
	return "mapping_record"
}

// OutputList 反序列化输出转换列表，空列为空列表
func (m *MappingRecord) OutputList() ([]OutputSpec, error) {
	if len(m.Outputs) == 0 {
		return []OutputSpec{}, nil
	}
	var out []OutputSpec
	if err := json.Unmarshal([]byte(m.Outputs), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []OutputSpec{}
	}
	return out, nil
}

func (m *MappingRecord) SetOutputs(outputs []OutputSpec) error {
	data, err := json.Marshal(outputs)
	if err != nil {
		return err
	}
	m.Outputs = datatypes.JSON(data)
	return nil
}

// Attrs 反序列化字段属性快照
func (m *MappingRecord) Attrs() (FieldAttrs, error) {
	var a FieldAttrs
	if len(m.FieldAttrs) == 0 {
		return a, nil
	}
	err := json.Unmarshal([]byte(m.FieldAttrs), &a)
	return a, err
}

func (m *MappingRecord) SetAttrs(a FieldAttrs) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	m.FieldAttrs = datatypes.JSON(data)
	return nil
}
