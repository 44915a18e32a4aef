package core

type (
	// Person identifies the user a log entry is about.
	Person struct {
		ID    string
		Email string
	}

	// Logger is any service that can record application events.
	// expected args fmt: error | map[string]interface{} | Person
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}
)
