// Package logging configures the shared application logger.  Cache and
// queue failures are reported here instead of surfacing to clients, so
// the logger is the only place those degradations become visible.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logrus instance.
var Logger = logrus.New()

var once sync.Once

// Init configures the global logger.  When LOG_FILE is set, output goes
// through a size-rotated file; otherwise logs go to stdout.  LOG_LEVEL
// accepts the usual logrus level names and defaults to info.
func Init() {
	once.Do(func() {
		if path := os.Getenv("LOG_FILE"); path != "" {
			Logger.SetOutput(&lumberjack.Logger{
				Filename:   path,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		} else {
			Logger.SetOutput(os.Stdout)
		}

		level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
		if err != nil {
			level = logrus.InfoLevel
		}
		Logger.SetLevel(level)
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
}
