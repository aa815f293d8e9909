package log

import (
	"github.com/rs/zerolog"
)

// CronLogger adapts a zerolog logger to the cron.Logger interface
type CronLogger struct {
	logger zerolog.Logger
}

// NewCronLogger returns a cron logger writing through l
func NewCronLogger(l zerolog.Logger) CronLogger {
	return CronLogger{logger: l}
}

// Info logs routine scheduler messages at debug level
func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.logger.Debug().Fields(pairs(keysAndValues)).Msg(msg)
}

// Error logs scheduler errors
func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.logger.Error().Err(err).Fields(pairs(keysAndValues)).Msg(msg)
}

func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
