package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *AppError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *AppError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *AppError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Catalogue persistence errors. These wrap I/O failures from the external
// store collaborator without interpreting them.

func StoreReadError(path string, cause error) *AppError {
	return Wrap(cause, CategoryStore, SeverityFatal, "failed to read catalogue").
		WithContext("path", path)
}

func StoreWriteError(path string, cause error) *AppError {
	return Wrap(cause, CategoryStore, SeverityFatal, "failed to write catalogue").
		WithContext("path", path)
}

// Network errors

func NetworkTimeout(url string, cause error) *AppError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "network timeout").
		WithContext("url", url)
}

// Internal errors

func InternalError(message string, cause error) *AppError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
