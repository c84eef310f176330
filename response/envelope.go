package response

import "github.com/gofiber/fiber/v2"

// Envelope is the uniform shape returned by every API call.
type Envelope struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   bool   `json:"error"`
	Success bool   `json:"success"`
}

// Success builds a success envelope. A zero code becomes StatusOK and nil data an empty array.
func Success(code Code, message string, data any) Envelope {
	if code == 0 {
		code = StatusOK
	}
	if data == nil {
		data = []any{}
	}
	return Envelope{Code: code, Message: message, Data: data, Error: false, Success: true}
}

// Unauthorized builds an unauthorized envelope. A zero code becomes StatusUnauthorized and nil data an empty array.
func Unauthorized(code Code, message string, data any) Envelope {
	if code == 0 {
		code = StatusUnauthorized
	}
	if data == nil {
		data = []any{}
	}
	return Envelope{Code: code, Message: message, Data: data, Error: true, Success: false}
}

// Error builds an error envelope. A zero code becomes StatusInternalServerError and nil data an empty object.
func Error(code Code, message string, data any) Envelope {
	if code == 0 {
		code = StatusInternalServerError
	}
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{Code: code, Message: message, Data: data, Error: true, Success: false}
}

// Write отправляет конверт клиенту, используя его код как HTTP-статус.
// Коды вне HTTP-диапазона отправляются как 500.
func Write(c *fiber.Ctx, e Envelope) error {
	status := e.Code
	if !status.IsHTTP() {
		status = StatusInternalServerError
	}
	return c.Status(status.Int()).JSON(e)
}
