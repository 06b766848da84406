// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"brainf/internal/config"
	"brainf/repl"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(2)
	}
	commonlog.Configure(cfg.Verbosity, cfg.LogPath())

	name := "there"
	if currentUser, err := user.Current(); err == nil {
		name = currentUser.Username
	}

	fmt.Printf("Welcome to the brainf REPL, %s! Type :help for commands.\n", name)
	repl.Start(os.Stdin, os.Stdout, cfg)
}
