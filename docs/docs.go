// Package docs 接口文档（swag 格式）
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/admin/books/{id}/file": {
			"post": {
				"summary": "上传电子书文件到 OSS 私有桶",
				"tags": [
					"admin"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/books": {
			"get": {
				"summary": "",
				"tags": [
					"catalog"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/indicators": {
			"get": {
				"summary": "",
				"tags": [
					"catalog"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/me/commissions": {
			"get": {
				"summary": "我的佣金",
				"tags": [
					"me"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				]
			}
		},
		"/coupons/validate": {
			"post": {
				"summary": "",
				"tags": [
					"coupons"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/admin/coupons": {
			"post": {
				"summary": "",
				"tags": [
					"admin"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				]
			}
		},
		"/me/books": {
			"get": {
				"summary": "",
				"tags": [
					"me"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				]
			}
		},
		"/me/books/{id}/download": {
			"get": {
				"summary": "",
				"tags": [
					"me"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/learning/courses/{id}/lessons": {
			"get": {
				"summary": "",
				"tags": [
					"learning"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/learning/courses/{id}/enrollment": {
			"get": {
				"summary": "",
				"tags": [
					"learning"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/learning/lessons/{id}/start": {
			"post": {
				"summary": "",
				"tags": [
					"learning"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/learning/lessons/{id}/progress": {
			"put": {
				"summary": "",
				"tags": [
					"learning"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/admin/analytics/courses/{id}": {
			"get": {
				"summary": "",
				"tags": [
					"admin"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/checkout/{type}/{id}": {
			"post": {
				"summary": "结账并生成付款二维码",
				"tags": [
					"checkout"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "type",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/checkout/orders/{id}": {
			"delete": {
				"summary": "取消待支付订单",
				"tags": [
					"checkout"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/checkout/orders/{transfer_code}": {
			"get": {
				"summary": "按转账码查询订单状态",
				"tags": [
					"checkout"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "transfer_code",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/me/subscriptions": {
			"get": {
				"summary": "我的指标订阅",
				"tags": [
					"me"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				]
			}
		},
		"/payments/webhook/bank": {
			"post": {
				"summary": "银行转账到账通知",
				"tags": [
					"payments"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/payments/notify/alipay": {
			"post": {
				"summary": "支付宝回调",
				"tags": [
					"payments"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/payments/notify/wechat": {
			"post": {
				"summary": "微信支付回调",
				"tags": [
					"payments"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"summary": "邮箱密码登录",
				"tags": [
					"auth"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/password": {
			"post": {
				"summary": "修改密码（首次登录必须）",
				"tags": [
					"auth"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				]
			}
		},
		"/users/me": {
			"get": {
				"summary": "当前登录用户",
				"tags": [
					"users"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"Bearer": []
					}
				]
			}
		}
	},
	"securityDefinitions": {
		"Bearer": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Course Commerce API",
	Description:      "电子书、指标订阅与课程售卖，学习进度与支付回调",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
