/*
NAME
  engine_test.go

DESCRIPTION
  engine_test.go provides the dumbLogger test double shared by every
  engine test file, following revid/config's pattern for a test
  logging.Logger; it records Info messages so tests can count warnings
  and drops every other level.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package engine

import "sync"

type dumbLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{}) {}
func (dl *dumbLogger) SetLevel(l int8)                        {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})  {}
func (dl *dumbLogger) Info(msg string, args ...interface{}) {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.msgs = append(dl.msgs, msg)
}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func (dl *dumbLogger) count() int {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return len(dl.msgs)
}
