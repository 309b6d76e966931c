// Package docs holds the OpenAPI document served at /swagger.
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
		"/auth/signup": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a user",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CredentialsRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.User"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				]
			}
		},
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Log in",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CredentialsRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.TokenResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				]
			}
		},
		"/medicines": {
			"get": {
				"tags": [
					"medicines"
				],
				"summary": "List medicines",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "query",
						"name": "limit",
						"type": "integer",
						"default": 100
					},
					{
						"in": "query",
						"name": "offset",
						"type": "integer"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Medicine"
							}
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/medicines/search": {
			"get": {
				"tags": [
					"medicines"
				],
				"summary": "Find a medicine by name",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "query",
						"name": "name",
						"required": true,
						"type": "string"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Medicine"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/medicines/barcode/{barcode}": {
			"get": {
				"tags": [
					"medicines"
				],
				"summary": "Get a medicine by barcode",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "barcode",
						"required": true,
						"type": "string",
						"description": "barcode"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Medicine"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/medicines/{id}": {
			"get": {
				"tags": [
					"medicines"
				],
				"summary": "Get a medicine with its batches",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string",
						"description": "medicine id"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Medicine"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"medicines"
				],
				"summary": "Update a medicine",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string",
						"description": "medicine id"
					},
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.MedicineUpdate"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Medicine"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"medicines"
				],
				"summary": "Delete a medicine",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"required": true,
						"type": "string",
						"description": "medicine id"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.MessageResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/medicines/smart-create": {
			"post": {
				"tags": [
					"medicines"
				],
				"summary": "Create a medicine and its first batch",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.SmartCreateRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Medicine"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"description": "An existing barcode reuses its catalog entry.",
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/inventory/receive": {
			"post": {
				"tags": [
					"inventory"
				],
				"summary": "Receive a batch for an existing medicine",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.ReceiveRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.InventoryBatch"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/inventory/receive-gs1": {
			"post": {
				"tags": [
					"inventory"
				],
				"summary": "Receive a batch from a GS1 scan",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.GS1ScanRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.InventoryBatch"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"description": "Unknown GTINs get a placeholder catalog entry.",
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/inventory/dispense": {
			"post": {
				"tags": [
					"inventory"
				],
				"summary": "Dispense units from a batch",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.BatchQuantityRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.DispenseResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"description": "Emptied batches are deleted, and so is a medicine left without batches.",
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/inventory/restock": {
			"post": {
				"tags": [
					"inventory"
				],
				"summary": "Add units to a batch",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.BatchQuantityRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.InventoryBatch"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/inventory/expiry-alerts": {
			"get": {
				"tags": [
					"inventory"
				],
				"summary": "Batches expiring within the alert window",
				"produces": [
					"application/json"
				],
				"parameters": [],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.ExpiringBatch"
							}
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/ocr/extract-text": {
			"post": {
				"tags": [
					"ocr"
				],
				"summary": "Read date, price and lot from a label photo",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "formData",
						"name": "file",
						"required": true,
						"type": "file"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.LabelExtraction"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"429": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"multipart/form-data"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/voice/process-audio": {
			"post": {
				"tags": [
					"voice"
				],
				"summary": "Create a medicine from a spoken description",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "formData",
						"name": "file",
						"required": true,
						"type": "file"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Medicine"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"429": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"multipart/form-data"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/chatbot/query": {
			"post": {
				"tags": [
					"chatbot"
				],
				"summary": "Ask the inventory assistant",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.ChatbotRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ChatbotResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					},
					"429": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/common.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"common.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "object",
					"properties": {
						"code": {
							"type": "string"
						},
						"message": {
							"type": "string"
						},
						"details": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"handlers.CredentialsRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			},
			"required": [
				"username",
				"password"
			]
		},
		"handlers.MessageResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"handlers.ReceiveRequest": {
			"type": "object",
			"properties": {
				"medicine_id": {
					"type": "string"
				},
				"lot_number": {
					"type": "string"
				},
				"expiry_date": {
					"type": "string",
					"format": "date"
				},
				"quantity": {
					"type": "integer"
				}
			},
			"required": [
				"medicine_id",
				"lot_number",
				"expiry_date",
				"quantity"
			]
		},
		"handlers.GS1ScanRequest": {
			"type": "object",
			"properties": {
				"gs1_data": {
					"type": "string",
					"example": "(01)00012345678905(17)261231(10)ABC123"
				},
				"quantity": {
					"type": "integer"
				}
			},
			"required": [
				"gs1_data",
				"quantity"
			]
		},
		"handlers.BatchQuantityRequest": {
			"type": "object",
			"properties": {
				"item_id": {
					"type": "string"
				},
				"quantity": {
					"type": "integer"
				}
			},
			"required": [
				"item_id",
				"quantity"
			]
		},
		"handlers.DispenseResponse": {
			"type": "object",
			"properties": {
				"outcome": {
					"type": "string",
					"enum": [
						"batch_updated",
						"batch_removed",
						"catalog_entry_removed"
					]
				},
				"batch": {
					"$ref": "#/definitions/models.InventoryBatch"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"handlers.ChatbotRequest": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			},
			"required": [
				"message"
			]
		},
		"handlers.ChatbotResponse": {
			"type": "object",
			"properties": {
				"response": {
					"type": "string"
				}
			}
		},
		"models.InventoryBatch": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"medicine_id": {
					"type": "string"
				},
				"lot_number": {
					"type": "string"
				},
				"expiry_date": {
					"type": "string",
					"format": "date"
				},
				"quantity": {
					"type": "integer"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"models.ExpiringBatch": {
			"type": "object",
			"properties": {
				"medicine_name": {
					"type": "string"
				},
				"lot_number": {
					"type": "string"
				},
				"expiry_date": {
					"type": "string",
					"format": "date"
				},
				"quantity": {
					"type": "integer"
				}
			}
		},
		"models.Medicine": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"barcode": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"manufacturer": {
					"type": "string"
				},
				"strength": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"expiry_date": {
					"type": "string",
					"format": "date"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				},
				"inventory_items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.InventoryBatch"
					}
				}
			}
		},
		"models.MedicineUpdate": {
			"type": "object",
			"properties": {
				"barcode": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"manufacturer": {
					"type": "string"
				},
				"strength": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"expiry_date": {
					"type": "string",
					"format": "date"
				}
			}
		},
		"models.SmartCreateRequest": {
			"type": "object",
			"properties": {
				"barcode": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"manufacturer": {
					"type": "string"
				},
				"strength": {
					"type": "string"
				},
				"price": {
					"type": "number"
				},
				"lot_number": {
					"type": "string"
				},
				"quantity": {
					"type": "integer"
				},
				"expiry_date": {
					"type": "string",
					"format": "date"
				}
			},
			"required": [
				"name",
				"lot_number",
				"quantity",
				"expiry_date"
			]
		},
		"models.TokenResponse": {
			"type": "object",
			"properties": {
				"access_token": {
					"type": "string"
				},
				"token_type": {
					"type": "string"
				},
				"expires_in": {
					"type": "integer"
				},
				"user_id": {
					"type": "string"
				},
				"issued_at": {
					"type": "string"
				}
			}
		},
		"models.User": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"is_active": {
					"type": "boolean"
				},
				"created_at": {
					"type": "string"
				}
			}
		},
		"services.LabelExtraction": {
			"type": "object",
			"properties": {
				"found_text": {
					"type": "string"
				},
				"parsed_date": {
					"type": "string",
					"format": "date"
				},
				"parsed_price": {
					"type": "number"
				},
				"parsed_lot": {
					"type": "string"
				}
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
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "PharmPal API",
	Description:      "Pharmacy inventory: catalog, batches, label OCR, voice intake and an assistant.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
