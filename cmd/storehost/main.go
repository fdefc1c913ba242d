package main

import (
	"os"

	"github.com/ziyyanmart/localstore/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.WithComponent("main").Error(err)
		os.Exit(1)
	}
}
