package response

// Code представляет код ответа API
type Code int

// Коды ответов, используемые в конвертах
const (
	StatusOK                  Code = 200
	StatusCreated             Code = 201
	StatusBadRequest          Code = 400
	StatusUnauthorized        Code = 401
	StatusForbidden           Code = 403
	StatusNotFound            Code = 404
	StatusMethodNotAllowed    Code = 405
	StatusDuplicateRecord     Code = 409
	StatusUnprocessableEntity Code = 422
	StatusTooManyRequests     Code = 429
	StatusInternalServerError Code = 500

	// StatusMongoDuplicateKey is the driver's duplicate-key code. It is used to
	// classify errors only and must be translated before it reaches a client.
	StatusMongoDuplicateKey Code = 11000
)

// Int возвращает код как int (удобно для fiber.Ctx.Status)
func (c Code) Int() int {
	return int(c)
}

// IsHTTP сообщает, может ли код быть отправлен клиенту как HTTP-статус
func (c Code) IsHTTP() bool {
	return c >= 100 && c <= 599
}
