// Package logging builds the process-wide zap logger.
package logging

import "go.uber.org/zap"

// New returns a sugared logger: JSON output in production, console otherwise.
func New(env string) *zap.SugaredLogger {
	var z *zap.Logger
	if env == "production" || env == "prod" {
		z, _ = zap.NewProduction()
	} else {
		z, _ = zap.NewDevelopment()
	}
	return z.Sugar()
}
