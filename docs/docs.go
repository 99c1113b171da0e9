// Package docs регистрирует swagger-описание API личного кабинета партнёра.
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
        "/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Регистрация партнёра",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Заявка принята", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Пользователь уже существует", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Вход партнёра",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Успешная авторизация", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Учётная запись не активирована", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Account"],
                "summary": "Профиль партнёра",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Нет профиля партнёра", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Account"],
                "summary": "История продаж",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Размер страницы", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Смещение", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Некорректные параметры", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/tariffs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Checkout"],
                "summary": "Каталог тарифов",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "502": {"description": "Сервер оформления подписок недоступен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "503": {"description": "Сервис оформления подписок недоступен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/checkout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Checkout"],
                "summary": "Расчёт стоимости подписки",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/selection.Selection"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Нет профиля партнёра или учётная запись деактивирована", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Данные указаны неверно или отказ сервиса", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "502": {"description": "Сервер оформления подписок недоступен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "503": {"description": "Сервис оформления подписок недоступен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/checkout/subscribe": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Checkout"],
                "summary": "Оформление подписки",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/selection.Selection"}}],
                "responses": {
                    "200": {"description": "Пользователь успешно подписан.", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Нет профиля партнёра, не задана комиссия или учётная запись деактивирована", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Данные указаны неверно или отказ сервиса", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "502": {"description": "Сервер оформления подписок недоступен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "503": {"description": "Сервис оформления подписок недоступен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.RegisterRequest": {
            "type": "object",
            "required": ["company_name", "email", "first_name", "inn", "last_name", "phone"],
            "properties": {
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "middle_name": {"type": "string"},
                "phone": {"type": "string"},
                "inn": {"type": "string"},
                "company_name": {"type": "string"},
                "contract_number": {"type": "string"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "selection.Selection": {
            "type": "object",
            "required": ["client_email", "period", "tariff"],
            "properties": {
                "tariff": {"type": "string", "example": "business"},
                "period": {"type": "integer", "example": 12},
                "client_email": {"type": "string", "example": "client@example.com"},
                "quotas": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "redirect": {"type": "string"},
                "data": {}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Error"},
                "error": {"type": "string", "example": "Данные указаны неверно."},
                "redirect": {"type": "string", "example": "/api/v1/profile"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Partner Portal API",
	Description:      "Личный кабинет партнёра: тарифы, оформление подписок клиентам, история продаж",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
