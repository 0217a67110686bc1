// Package docs swagger 文档，可用 swag init -g main.go 根据控制器注释重新生成完整版本
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["系统"],
                "summary": "健康检查",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/courses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["课程"],
                "summary": "课程列表",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "difficulty", "in": "query"},
                    {"type": "string", "name": "skill", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/courses/{id}/enroll": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["选课"],
                "summary": "选课",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "课程不存在或未启用"},
                    "409": {"description": "已选过该课程 / 课程已满"}
                }
            }
        },
        "/my-profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["员工"],
                "summary": "我的员工档案",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Skills Development 后端 API",
	Description:      "企业培训平台：技能目录、员工档案、课程与选课。",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
