//go:build !(tinygo && bootdebug)

package app

import "github.com/tadakado/microbit-dal/hal"

// bootDiagStart and bootScreen are no-ops everywhere except a TinyGo
// build tagged bootdebug; see bootdiag_tinygo.go/bootscreen_tinygo.go.
func bootDiagStart(h hal.HAL)          {}
func bootScreen(h hal.HAL, msg string) {}
