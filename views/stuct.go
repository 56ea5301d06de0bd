package views

import (
	"github.com/GrainArc/SchemaMap/methods"
	"github.com/GrainArc/SchemaMap/models"
)

type UserController struct {
	fieldService   *methods.FieldService
	mappingService *methods.MappingService
}

func NewUserController() *UserController {
	return &UserController{
		fieldService:   methods.NewFieldService(),
		mappingService: methods.NewMappingService(),
	}
}

// StatusMsg 统一的状态通知载荷
type StatusMsg struct {
	Severity string `json:"severity"` // info  warning  error
	Message  string `json:"message"`
}

// SaveMappingRequest 拖拽落点后的保存映射请求
type SaveMappingRequest struct {
	SchemaKey      string              `json:"schemaKey"`
	TargetNodeID   string              `json:"targetNodeId"`
	FieldID        string              `json:"fieldId"`
	FieldLabel     string              `json:"fieldLabel"`
	MappingDetails string              `json:"mappingDetails"`
	Outputs        []models.OutputSpec `json:"outputs"`
}

// ModifyFieldRequest 字段记录的就地编辑
type ModifyFieldRequest struct {
	FieldID  string `json:"fieldId"`
	Label    string `json:"label"`
	TypeHint string `json:"typeHint"`
	Sample   string `json:"sample"`
	Notes    string `json:"notes"`
	Color    string `json:"color"`
}
