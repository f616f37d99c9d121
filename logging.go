// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// newLogger builds the server logger. Text output is coloured only when it
// goes to a terminal.
func newLogger(out io.Writer, level string, json bool) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
		return logger, nil
	}
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   isTerminal(out),
		DisableColors: !isTerminal(out),
		FullTimestamp: true,
	})
	return logger, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// clientLogger is the per-connection logger; every line carries the client
// address.
func clientLogger(logger *logrus.Logger, driver string, remote string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"driver": driver,
		"client": remote,
	})
}
