package log

// Common field names for structured logging. Passwords and password
// hashes are never logged under any field.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldUserID    = "user_id"
	FieldUsername  = "username"
	FieldRows      = "rows"
	FieldDest      = "destination"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentAuth    = "auth"
	ComponentSession = "session"
)

// Operations defines standard operation names
const (
	OpRegister     = "register"
	OpAuthenticate = "authenticate"
	OpLogout       = "logout"
	OpExport       = "export"
)
