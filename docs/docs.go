// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init --v3.1 -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "servers": [
        {
            "url": "/api/v1"
        }
    ],
    "paths": {
        "/pos/orders/{id}/settle": {
            "post": {
                "tags": [
                    "POS"
                ],
                "summary": "Settle an order",
                "description": "Records the payment, depletes recipe stock and posts the sale to the ledger when auto-posting is enabled",
                "operationId": "settleOrder",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/settlement.SettlementResult"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Malformed request",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "Order not found",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "409": {
                        "description": "Order already settled",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "422": {
                        "description": "Payment or configuration rejected",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "Temporarily unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Order ID",
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "requestBody": {
                    "required": true,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/settlement.SettleRequest"
                            }
                        }
                    }
                }
            }
        },
        "/pos/orders/{id}/cancel": {
            "post": {
                "tags": [
                    "POS"
                ],
                "summary": "Cancel an order",
                "description": "Cancels an unpaid order and frees its table",
                "operationId": "cancelOrder",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/settlement.CancelResult"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Malformed request",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "Order not found",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "409": {
                        "description": "Order already settled",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "Temporarily unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Order ID",
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "requestBody": {
                    "required": false,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/settlement.CancelRequest"
                            }
                        }
                    }
                }
            }
        },
        "/pos/orders/{id}/post-ledger": {
            "post": {
                "tags": [
                    "POS"
                ],
                "summary": "Post a settled order to the ledger",
                "description": "Retries the ledger posting of a paid order that is unposted or failed",
                "operationId": "postOrderToLedger",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/settlement.PostingResult"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "403": {
                        "description": "Missing ledger:post permission",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "Order not found",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "409": {
                        "description": "Already posted",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "422": {
                        "description": "Order not paid or accounts not configured",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "Temporarily unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Order ID",
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ]
            }
        },
        "/pos/orders/{id}/accounting-summary": {
            "get": {
                "tags": [
                    "POS"
                ],
                "summary": "Accounting summary of an order",
                "description": "Totals, payment and journal lines of an order",
                "operationId": "getAccountingSummary",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/settlement.AccountingSummary"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "403": {
                        "description": "Missing ledger read permission",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "Order not found",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Order ID",
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ]
            }
        },
        "/system/outbox/dead": {
            "get": {
                "tags": [
                    "Outbox"
                ],
                "summary": "List dead letter entries",
                "description": "Dead letters, newest first",
                "operationId": "listDeadLetters",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/event.OutboxListResult"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Invalid pagination",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "401": {
                        "description": "Missing or invalid token",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "403": {
                        "description": "Missing system:outbox permission",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "page",
                        "in": "query",
                        "schema": {
                            "type": "integer",
                            "default": 1,
                            "minimum": 1
                        }
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "schema": {
                            "type": "integer",
                            "default": 20,
                            "minimum": 1,
                            "maximum": 100
                        }
                    }
                ]
            }
        },
        "/system/outbox/dead/retry-all": {
            "post": {
                "tags": [
                    "Outbox"
                ],
                "summary": "Retry all dead letter entries",
                "description": "Moves every dead letter back to pending",
                "operationId": "retryAllDeadLetters",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/handler.RetryAllResponse"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "Temporarily unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/system/outbox/stats": {
            "get": {
                "tags": [
                    "Outbox"
                ],
                "summary": "Outbox entries by status",
                "description": "Counts entries per delivery status",
                "operationId": "getOutboxStats",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/event.OutboxStatsDTO"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "Temporarily unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/system/outbox/{id}": {
            "get": {
                "tags": [
                    "Outbox"
                ],
                "summary": "Get an outbox entry",
                "description": "One outbox entry without its payload",
                "operationId": "getOutboxEntry",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/event.OutboxEntryDTO"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Invalid id",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Outbox Entry ID",
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ]
            }
        },
        "/system/outbox/{id}/retry": {
            "post": {
                "tags": [
                    "Outbox"
                ],
                "summary": "Retry a dead letter entry",
                "description": "Resets a dead letter to pending with a fresh retry budget",
                "operationId": "retryDeadLetter",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/event.OutboxEntryDTO"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "400": {
                        "description": "Invalid id",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "Entry not found",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    },
                    "422": {
                        "description": "Entry is not dead",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/handler.ErrorResponse"
                                }
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "description": "Outbox Entry ID",
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ]
            }
        },
        "/health": {
            "servers": [
                {
                    "url": "/"
                }
            ],
            "get": {
                "tags": [
                    "system"
                ],
                "summary": "Health check",
                "operationId": "getSystemHealth",
                "description": "Probes the database and Redis. Returns 503 when a dependency is down.",
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/handler.HealthResponse"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "allOf": [
                                        {
                                            "$ref": "#/components/schemas/handler.APIResponse"
                                        },
                                        {
                                            "type": "object",
                                            "properties": {
                                                "data": {
                                                    "$ref": "#/components/schemas/handler.HealthResponse"
                                                }
                                            }
                                        }
                                    ]
                                }
                            }
                        }
                    }
                }
            }
        }
    },
    "components": {
        "schemas": {
            "handler.APIResponse": {
                "type": "object",
                "properties": {
                    "success": {
                        "type": "boolean"
                    },
                    "data": {},
                    "error": {
                        "$ref": "#/components/schemas/dto.ErrorInfo"
                    }
                }
            },
            "handler.ErrorResponse": {
                "type": "object",
                "properties": {
                    "success": {
                        "type": "boolean",
                        "example": false
                    },
                    "error": {
                        "$ref": "#/components/schemas/dto.ErrorInfo"
                    }
                }
            },
            "handler.RetryAllResponse": {
                "type": "object",
                "properties": {
                    "count": {
                        "type": "integer",
                        "format": "int64"
                    }
                }
            },
            "dto.ErrorInfo": {
                "type": "object",
                "properties": {
                    "code": {
                        "type": "string",
                        "example": "ALREADY_SETTLED"
                    },
                    "message": {
                        "type": "string"
                    },
                    "category": {
                        "type": "string",
                        "enum": [
                            "VALIDATION",
                            "CONFIGURATION",
                            "CONSISTENCY",
                            "INFRASTRUCTURE"
                        ]
                    },
                    "request_id": {
                        "type": "string"
                    },
                    "retryable": {
                        "type": "boolean"
                    },
                    "details": {
                        "type": "array",
                        "items": {
                            "$ref": "#/components/schemas/dto.FieldError"
                        }
                    }
                }
            },
            "dto.FieldError": {
                "type": "object",
                "properties": {
                    "field": {
                        "type": "string"
                    },
                    "message": {
                        "type": "string"
                    }
                }
            },
            "settlement.SettleRequest": {
                "type": "object",
                "properties": {
                    "paymentMethodId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "amountTendered": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "discountId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "discountAmount": {
                        "type": "string",
                        "example": "224.00"
                    }
                },
                "required": [
                    "paymentMethodId",
                    "amountTendered"
                ]
            },
            "settlement.CancelRequest": {
                "type": "object",
                "properties": {
                    "reason": {
                        "type": "string",
                        "maxLength": 500
                    }
                }
            },
            "settlement.PostingResult": {
                "type": "object",
                "properties": {
                    "status": {
                        "type": "string",
                        "enum": [
                            "UNPOSTED",
                            "PENDING",
                            "POSTED",
                            "FAILED"
                        ]
                    },
                    "posted": {
                        "type": "boolean"
                    },
                    "requiresManualPosting": {
                        "type": "boolean"
                    },
                    "journalEntryId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "documentNumber": {
                        "type": "string",
                        "example": "JE-000001"
                    },
                    "usedDefaultAccounts": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    },
                    "error": {
                        "type": "string"
                    }
                }
            },
            "settlement.StockWarningDTO": {
                "type": "object",
                "properties": {
                    "kind": {
                        "type": "string",
                        "enum": [
                            "NEGATIVE_STOCK",
                            "LOW_STOCK"
                        ]
                    },
                    "componentItemId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "locationId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "quantityOnHand": {
                        "type": "string",
                        "example": "224.00"
                    }
                }
            },
            "settlement.SettlementResult": {
                "type": "object",
                "properties": {
                    "paymentId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "orderId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "orderNumber": {
                        "type": "string"
                    },
                    "status": {
                        "type": "string"
                    },
                    "subtotal": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "discount": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "tax": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "totalAmount": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "amountPaid": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "change": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "paidAt": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "posting": {
                        "$ref": "#/components/schemas/settlement.PostingResult"
                    },
                    "stockWarnings": {
                        "type": "array",
                        "items": {
                            "$ref": "#/components/schemas/settlement.StockWarningDTO"
                        }
                    }
                }
            },
            "settlement.CancelResult": {
                "type": "object",
                "properties": {
                    "orderId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "orderNumber": {
                        "type": "string"
                    },
                    "status": {
                        "type": "string"
                    },
                    "cancelledAt": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "reason": {
                        "type": "string"
                    }
                }
            },
            "settlement.JournalLineDTO": {
                "type": "object",
                "properties": {
                    "lineNumber": {
                        "type": "integer"
                    },
                    "accountId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "role": {
                        "type": "string"
                    },
                    "debit": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "credit": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "description": {
                        "type": "string"
                    }
                }
            },
            "settlement.AccountingSummary": {
                "type": "object",
                "properties": {
                    "orderId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "orderNumber": {
                        "type": "string"
                    },
                    "status": {
                        "type": "string"
                    },
                    "subtotal": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "discount": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "tax": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "totalAmount": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "paymentId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "paymentMethodId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "paymentMethodName": {
                        "type": "string"
                    },
                    "paidAt": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "postingStatus": {
                        "type": "string"
                    },
                    "posted": {
                        "type": "boolean"
                    },
                    "postedAt": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "journalEntryId": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "documentNumber": {
                        "type": "string"
                    },
                    "totalDebit": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "totalCredit": {
                        "type": "string",
                        "example": "224.00"
                    },
                    "journalLines": {
                        "type": "array",
                        "items": {
                            "$ref": "#/components/schemas/settlement.JournalLineDTO"
                        }
                    },
                    "lastError": {
                        "type": "string"
                    },
                    "requiresManualPosting": {
                        "type": "boolean"
                    }
                }
            },
            "event.OutboxEntryDTO": {
                "type": "object",
                "properties": {
                    "id": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "tenant_id": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "event_id": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "event_type": {
                        "type": "string"
                    },
                    "aggregate_id": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "aggregate_type": {
                        "type": "string"
                    },
                    "status": {
                        "type": "string",
                        "enum": [
                            "PENDING",
                            "PROCESSING",
                            "SENT",
                            "FAILED",
                            "DEAD"
                        ]
                    },
                    "retry_count": {
                        "type": "integer"
                    },
                    "max_retries": {
                        "type": "integer"
                    },
                    "last_error": {
                        "type": "string"
                    },
                    "next_retry_at": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "processed_at": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "created_at": {
                        "type": "string",
                        "format": "date-time"
                    },
                    "updated_at": {
                        "type": "string",
                        "format": "date-time"
                    }
                }
            },
            "event.OutboxListResult": {
                "type": "object",
                "properties": {
                    "entries": {
                        "type": "array",
                        "items": {
                            "$ref": "#/components/schemas/event.OutboxEntryDTO"
                        }
                    },
                    "total": {
                        "type": "integer",
                        "format": "int64"
                    },
                    "page": {
                        "type": "integer"
                    },
                    "page_size": {
                        "type": "integer"
                    },
                    "total_pages": {
                        "type": "integer"
                    }
                }
            },
            "event.OutboxStatsDTO": {
                "type": "object",
                "properties": {
                    "pending": {
                        "type": "integer",
                        "format": "int64"
                    },
                    "processing": {
                        "type": "integer",
                        "format": "int64"
                    },
                    "sent": {
                        "type": "integer",
                        "format": "int64"
                    },
                    "failed": {
                        "type": "integer",
                        "format": "int64"
                    },
                    "dead": {
                        "type": "integer",
                        "format": "int64"
                    },
                    "total": {
                        "type": "integer",
                        "format": "int64"
                    }
                }
            },
            "handler.HealthResponse": {
                "type": "object",
                "properties": {
                    "status": {
                        "type": "string",
                        "example": "ok"
                    },
                    "version": {
                        "type": "string"
                    },
                    "go_version": {
                        "type": "string"
                    },
                    "uptime": {
                        "type": "string"
                    },
                    "checks": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "string"
                        }
                    },
                    "posting_circuit": {
                        "type": "string",
                        "example": "closed"
                    }
                }
            }
        },
        "securitySchemes": {
            "BearerAuth": {
                "type": "http",
                "scheme": "bearer",
                "bearerFormat": "JWT",
                "description": "Access token issued by the identity service"
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "Order Settlement API",
	Description:      "Settles point-of-sale orders, depletes recipe stock and posts balanced journal entries to the general ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
