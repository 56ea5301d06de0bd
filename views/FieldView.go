package views

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadFieldSheet 上传字段模板，解析成功后整体替换现有字段集合
func (uc *UserController) UploadFieldSheet(c *gin.Context) {
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

	records, err := uc.fieldService.ExtractFields(path)
	if err != nil {
		// 模板不可读时上报错误，现有字段集合保持不动
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	if err := uc.fieldService.ReplaceFields(records); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "fields": records})
}

func (uc *UserController) GetFields(c *gin.Context) {
	records, err := uc.fieldService.ListFields()
	if err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (uc *UserController) ModifyField(c *gin.Context) {
	var req ModifyFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FieldID == "" {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "fieldId is required"})
		return
	}
	if err := uc.fieldService.ModifyField(req.FieldID, req.Label, req.TypeHint, req.Sample, req.Notes, req.Color); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, StatusMsg{Severity: "info", Message: "field updated"})
}

func (uc *UserController) DelField(c *gin.Context) {
	fieldID := c.Query("fieldid")
	if fieldID == "" {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "fieldid parameter is required"})
		return
	}
	if err := uc.fieldService.DeleteField(fieldID); err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, StatusMsg{Severity: "info", Message: "field removed"})
}
