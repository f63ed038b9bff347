package core

type (
	// Logger is any service that can log messages.
	// expected args: error | map[string]interface{} (fields) | Person
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
		Sync() error
	}

	// Person identifies the caller a log entry is about.
	Person struct {
		ID    string
		Email string
		Role  string
	}
)
