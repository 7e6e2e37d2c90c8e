package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init настраивает глобальный логгер. В production — JSON.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter — человекочитаемый вывод для разработки.
func SetTextFormatter() {
	if Log == nil {
		Init("debug")
	}
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
