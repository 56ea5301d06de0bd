package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var Download string
var Dbname string
var DeviceName string
var MainConfig Config

type Config struct {
	XMLName    xml.Name `xml:"config"`
	MainRouter string   `xml:"MainRouter"`
	Dbname     string   `xml:"dbname"`
	RootPath   string   `xml:"RootPath"`
	DeviceName string   `xml:"DeviceName"`
	Download   string   `xml:"download"`
}

func init() {
	loadConfigFile()

	// 没有config.xml也要能起服务，缺省值兜底
	if Download == "" {
		Download = "."
	}
	if Dbname == "" {
		Dbname = "schemamap.db"
	}
}

func loadConfigFile() {
	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		return
	}
	MainRouter = MainConfig.MainRouter
	Dbname = MainConfig.Dbname
	Download = MainConfig.Download
	DeviceName = MainConfig.DeviceName
}
