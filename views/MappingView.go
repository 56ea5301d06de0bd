package views

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/GrainArc/SchemaMap/ExcelGenerator"
	"github.com/GrainArc/SchemaMap/SchemaTree"
	"github.com/GrainArc/SchemaMap/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaveMapping 把一个字段挂到树的一个叶子上
// 节点名称和类型在保存时快照进记录，树重建后回退匹配要用
func (uc *UserController) SaveMapping(c *gin.Context) {
	var req SaveMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "invalid request body"})
		return
	}
	if req.SchemaKey == "" || req.TargetNodeID == "" {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "schemaKey and targetNodeId are required"})
		return
	}

	var schema models.MySchema
	if err := models.DB.Where("schema_key = ?", req.SchemaKey).First(&schema).Error; err != nil {
		c.JSON(http.StatusNotFound, StatusMsg{Severity: "error", Message: "schema not found: " + req.SchemaKey})
		return
	}
	tree, err := SchemaTree.Normalize([]byte(schema.RawSchema))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	node := tree.Find(req.TargetNodeID)
	if node == nil {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "unknown tree node " + req.TargetNodeID})
		return
	}

	rec := models.MappingRecord{
		SchemaKey:      req.SchemaKey,
		TargetNodeID:   node.ID,
		NodeName:       node.Name,
		NodeType:       node.Type,
		FieldID:        req.FieldID,
		FieldLabel:     req.FieldLabel,
		MappingDetails: req.MappingDetails,
	}
	if err := rec.SetOutputs(req.Outputs); err != nil {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}

	// 字段记录还在时冗余一份属性快照，字段集合被替换后映射仍可读
	attrs := models.FieldAttrs{}
	if field, err := uc.fieldService.GetField(req.FieldID); err == nil {
		if rec.FieldLabel == "" {
			rec.FieldLabel = field.Label
		}
		attrs = models.FieldAttrs{
			TypeHint: field.TypeHint,
			Sample:   field.Sample,
			Notes:    field.Notes,
			Color:    field.Color,
		}
	}
	if err := rec.SetAttrs(attrs); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}

	if err := uc.mappingService.SaveMapping(&rec); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusMsg{Severity: "info", Message: "mapping saved"}, "mapping": rec})
}

func (uc *UserController) GetMappings(c *gin.Context) {
	schemaKey := c.Query("schemakey")
	recs, err := uc.mappingService.ListMappings(schemaKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (uc *UserController) DelMapping(c *gin.Context) {
	schemaKey := c.Query("schemakey")
	nodeID := c.Query("nodeid")
	if schemaKey == "" || nodeID == "" {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "schemakey and nodeid parameters are required"})
		return
	}
	if err := uc.mappingService.DeleteMapping(schemaKey, nodeID); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, StatusMsg{Severity: "info", Message: "mapping removed"})
}

// ClearMappings 一键清空一个Schema的全部映射
func (uc *UserController) ClearMappings(c *gin.Context) {
	schemaKey := c.Query("schemakey")
	if schemaKey == "" {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "schemakey parameter is required"})
		return
	}
	if err := uc.mappingService.ClearMappings(schemaKey); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, StatusMsg{Severity: "info", Message: "all mappings cleared"})
}

// ExportMappings 导出映射交换工作簿并返回下载地址
func (uc *UserController) ExportMappings(c *gin.Context) {
	schemaKey := c.Query("schemakey")
	var schema models.MySchema
	if err := models.DB.Where("schema_key = ?", schemaKey).First(&schema).Error; err != nil {
		c.JSON(http.StatusNotFound, StatusMsg{Severity: "error", Message: "schema not found: " + schemaKey})
		return
	}

	recs, err := uc.mappingService.ListMappings(schemaKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}

	bsm := uuid.New().String()
	outDir := filepath.Join("OutFile", bsm)
	os.MkdirAll(outDir, os.ModePerm)
	outPath := filepath.Join(outDir, "mappings.xlsx")
	if err := ExcelGenerator.ExportToFile(outPath, schemaKey, recs); err != nil {
		log.Println("导出映射失败:", err)
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}

	host := c.Request.Host
	u := &url.URL{
		Scheme: "http",
		Host:   host,
		Path:   "/mapping/OutFile/" + bsm + "/mappings.xlsx",
	}
	c.String(http.StatusOK, u.String())
}

// ImportMappings 导入映射交换工作簿
// 先从元数据表取回schemaKey，整体替换该Schema的映射集
func (uc *UserController) ImportMappings(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "file parameter is required"})
		return
	}

	bsm := uuid.New().String()
	dir := filepath.Join("UploadFile", bsm)
	os.MkdirAll(dir, os.ModePerm)
	path := filepath.Join(dir, file.Filename)
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}

	schemaKey, recs, err := ExcelGenerator.Import(path)
	if err != nil {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}

	var schema models.MySchema
	if err := models.DB.Where("schema_key = ?", schemaKey).First(&schema).Error; err != nil {
		c.JSON(http.StatusBadRequest, StatusMsg{
			Severity: "error",
			Message:  "workbook belongs to unknown schema " + schemaKey + ", nothing imported",
		})
		return
	}

	if err := uc.mappingService.InstallMappings(schemaKey, recs); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"schemaKey": schemaKey,
		"count":     len(recs),
		"status":    StatusMsg{Severity: "info", Message: "mappings imported"},
	})
}
