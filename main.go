// @title Skills Development 后端 API
// @version 1.0
// @description 企业培训平台的后端服务：技能目录、员工档案、课程与选课。

// @contact.name API支持
// @contact.email support@skillsdev.com

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"os"

	"skilldev_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
