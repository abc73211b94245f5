package serverutils

// AppError is an error that carries its HTTP status; the error handler
// middleware maps it straight onto the response.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return &AppError{Code: 400, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: 404, Message: message}
}
