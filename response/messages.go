package response

// Сообщения, возвращаемые клиентам и записываемые в лог
const (
	MessageEmpty = ""

	MessageHome      = "NodeJs APIs Server"
	MessageDBSuccess = "Successfully connected to the database"
	MessageDBError   = "Error! Could not connect to the database"
	MessageDBPending = "Connecting..."
	MessageListening = "App listening on port %d"

	MessageSuccess           = "Success"
	MessageServerError       = "Internal server error"
	MessageUnexpectedError   = "Unexpected error occurred"
	MessageInvalidIdentifier = "Invalid ID: "
	MessageInvalidSessionID  = "Invalid session ID: "
	MessageDuplicateRecord   = "Duplicate record"
	MessageNotFound          = "Resource not found"
	MessagePayloadTooLarge   = "Request payload is too large"
)
