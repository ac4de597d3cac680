// internal/common/logger/gocron.go
package logger

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
)

// schedulerLogger bridges gocron's key/value logger onto Logger.
type schedulerLogger struct {
	l Logger
}

// NewSchedulerLogger returns a gocron.Logger that writes through l.
func NewSchedulerLogger(l Logger) gocron.Logger {
	return &schedulerLogger{l: l.WithFields(map[string]interface{}{"component": "scheduler"})}
}

func (s *schedulerLogger) Debug(msg string, args ...any) { s.l.Debug(msg, argsToFields(args)) }
func (s *schedulerLogger) Info(msg string, args ...any)  { s.l.Info(msg, argsToFields(args)) }
func (s *schedulerLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, argsToFields(args)) }
func (s *schedulerLogger) Error(msg string, args ...any) { s.l.Error(msg, argsToFields(args)) }

func argsToFields(args []any) map[string]interface{} {
	if len(args) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			fields["extra"] = args[i]
			break
		}
		fields[key] = args[i+1]
	}
	return fields
}
