package views

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/GrainArc/SchemaMap/SchemaTree"
	"github.com/GrainArc/SchemaMap/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AddSchema 上传JSON Schema文档并入库
// Schema先归一化一遍，结构非法的文档直接拒收
func (uc *UserController) AddSchema(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "name parameter is required"})
		return
	}

	var raw []byte
	file, err := c.FormFile("file")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "cannot read uploaded file"})
			return
		}
		defer src.Close()
		raw, err = io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "cannot read uploaded file"})
			return
		}
	} else {
		raw = []byte(c.PostForm("schema"))
	}

	if _, err := SchemaTree.Normalize(raw); err != nil {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}

	schema := models.MySchema{
		SchemaKey:   uuid.New().String(),
		Name:        name,
		RawSchema:   datatypes.JSON(raw),
		UpdatedDate: time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := models.DB.Create(&schema).Error; err != nil {
		log.Println("保存Schema失败:", err)
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: "failed to store schema"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schemaKey": schema.SchemaKey, "name": schema.Name})
}

func (uc *UserController) GetSchemaList(c *gin.Context) {
	var result []models.MySchema
	models.DB.Order("id").Find(&result)
	c.JSON(http.StatusOK, result)
}

// DelSchema 删除Schema文档，映射记录保留为孤儿，不跟随删除
func (uc *UserController) DelSchema(c *gin.Context) {
	schemaKey := c.Query("schemakey")
	if schemaKey == "" {
		c.JSON(http.StatusBadRequest, StatusMsg{Severity: "error", Message: "schemakey parameter is required"})
		return
	}
	if err := models.DB.Where("schema_key = ?", schemaKey).Delete(&models.MySchema{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, StatusMsg{Severity: "info", Message: "schema deleted"})
}

// VisualizeSchema 重建树并把已保存的映射重新挂上
// 异常记录随树一起返回，前端逐条展示，不静默丢弃
func (uc *UserController) VisualizeSchema(c *gin.Context) {
	schemaKey := c.Query("schemakey")
	var schema models.MySchema
	if err := models.DB.Where("schema_key = ?", schemaKey).First(&schema).Error; err != nil {
		c.JSON(http.StatusNotFound, StatusMsg{Severity: "error", Message: "schema not found: " + schemaKey})
		return
	}

	tree, err := SchemaTree.Normalize([]byte(schema.RawSchema))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}

	recs, err := uc.mappingService.ListMappings(schemaKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StatusMsg{Severity: "error", Message: err.Error()})
		return
	}
	report := SchemaTree.Bind(tree, recs)

	c.JSON(http.StatusOK, gin.H{
		"schemaKey": schemaKey,
		"tree":      tree,
		"report":    report,
	})
}
