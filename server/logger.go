package main

import (
	"context"
	"encoding/json"
	"io"
	"log"

	jlog "github.com/luno/jettison/log"
)

// JSONLogger writes one JSON object per jettison log line.
type JSONLogger struct {
	*log.Logger
}

func (l *JSONLogger) Log(_ context.Context, log jlog.Entry) string {
	res, err := json.Marshal(log)
	if err != nil {
		l.Logger.Printf("jlogger: failed to marshal log: %v", err)
		l.Logger.Print(log.Message) // best-effort
		return log.Message
	}
	l.Logger.Print(string(res))
	return string(res)
}

func InitLogging(w io.Writer) {
	jlog.SetLogger(&JSONLogger{Logger: log.New(w, "", 0)})
}
