package routers

import (
	"github.com/GrainArc/SchemaMap/views"
	"github.com/gin-gonic/gin"
)

func MappingRouters(r *gin.Engine) {
	UserController := views.NewUserController()

	schemaRouter := r.Group("/schema")
	{
		schemaRouter.POST("/AddSchema", UserController.AddSchema)            // 上传Schema
		schemaRouter.GET("/GetSchemaList", UserController.GetSchemaList)     // Schema列表
		schemaRouter.GET("/DelSchema", UserController.DelSchema)             // 删除Schema
		schemaRouter.GET("/VisualizeSchema", UserController.VisualizeSchema) // 归一化+重绑定
	}

	fieldRouter := r.Group("/fields")
	{
		fieldRouter.POST("/UploadFieldSheet", UserController.UploadFieldSheet) // 上传字段模板
		fieldRouter.GET("/GetFields", UserController.GetFields)
		fieldRouter.POST("/ModifyField", UserController.ModifyField)
		fieldRouter.GET("/DelField", UserController.DelField)
	}

	mappingRouter := r.Group("/mapping")
	{
		mappingRouter.POST("/SaveMapping", UserController.SaveMapping)
		mappingRouter.GET("/GetMappings", UserController.GetMappings)
		mappingRouter.GET("/DelMapping", UserController.DelMapping)
		mappingRouter.GET("/ClearMappings", UserController.ClearMappings)
		mappingRouter.GET("/ExportMappings", UserController.ExportMappings)
		mappingRouter.POST("/ImportMappings", UserController.ImportMappings)
		mappingRouter.Static("/OutFile", "./OutFile")
	}
}
