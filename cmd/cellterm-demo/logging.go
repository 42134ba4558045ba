package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const maxLogSize = 10 * 1024 * 1024 // 10MB

// setupLogging routes logrus to path when debug is set, rotating an oversized file first
// Logging never touches stdout or stderr: the terminal is the UI
func setupLogging(debug bool, path string) *os.File {
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	if !debug {
		logrus.SetOutput(io.Discard)
		logrus.SetLevel(logrus.InfoLevel)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logrus.SetOutput(io.Discard)
		return nil
	}

	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		ext := filepath.Ext(path)
		rotated := fmt.Sprintf("%s-%s%s", path[:len(path)-len(ext)], time.Now().Format("20060102-150405"), ext)
		os.Rename(path, rotated)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logrus.SetOutput(io.Discard)
		return nil
	}

	logrus.SetOutput(f)
	logrus.SetLevel(logrus.DebugLevel)
	logrus.WithField("pid", os.Getpid()).Info("logging started")
	return f
}
