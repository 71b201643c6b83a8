//go:build tinygo

package main

import (
	"github.com/tadakado/microbit-dal/app"
	"github.com/tadakado/microbit-dal/hal"
)

func main() {
	app.Run(hal.New())
}
