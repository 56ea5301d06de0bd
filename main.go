package main

import (
	"log"
	"os"

	"github.com/GrainArc/SchemaMap/config"
	"github.com/GrainArc/SchemaMap/models"
	"github.com/GrainArc/SchemaMap/routers"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := models.InitDB(); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}
	os.MkdirAll("OutFile", os.ModePerm)
	os.MkdirAll("UploadFile", os.ModePerm)

	r := gin.Default()
	routers.MappingRouters(r)

	addr := config.MainRouter
	if addr == "" {
		addr = ":8426"
	}
	log.Println("服务启动:", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
