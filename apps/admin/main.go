package main

import (
	"fmt"
	"os"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	emailsvc "github.com/Otsikow/bridge-study-global-sub004/services/email"
	logsvc "github.com/Otsikow/bridge-study-global-sub004/services/logger"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logsvc.NewZapLogger(core.LogConfig{Level: conf.Log.Level, Format: "console"})
	defer func() { _ = logger.Sync() }()

	var mailSvc core.EmailService
	if conf.Email.SendgridAPIKey != "" {
		mailSvc = emailsvc.NewSendgridService(conf)
	} else {
		mailSvc = emailsvc.NewConsoleService(conf)
	}

	// start CLI
	cli := commandLine{
		conf:    conf,
		mailSvc: mailSvc,
		out:     os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		_ = logger.Sync()
		os.Exit(1)
	}
}
