package utils

import (
	"github.com/modern-go/gls"
	"github.com/sirupsen/logrus"
)

// Hook stamps log entries with a goroutine-local field, so everything a
// producer goroutine logs during a notification pass carries the subject
// name. The goroutine must have been registered with gls.ResetGls.
type Hook struct {
	Field  string
	levels []logrus.Level
}

func (hook *Hook) Levels() []logrus.Level {
	return hook.levels
}

func (hook *Hook) Fire(entry *logrus.Entry) error {
	subjectName := gls.Get(hook.Field)
	if subjectName != nil {
		entry.Data[hook.Field] = subjectName
	}
	return nil
}

func NewHook(levels ...logrus.Level) *Hook {
	hook := Hook{
		Field:  "subject",
		levels: levels,
	}
	if len(hook.levels) == 0 {
		hook.levels = logrus.AllLevels
	}

	return &hook
}
