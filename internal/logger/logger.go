package logger

import "go.uber.org/zap"

// New builds the production JSON logger. Development mode switches to the
// human-readable console encoder.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		config := zap.NewDevelopmentConfig()
		config.OutputPaths = []string{"stderr"}
		return config.Build()
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	return config.Build()
}
