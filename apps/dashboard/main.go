package main

import (
	"log"
	"os"

	"github.com/AkmalxonWeBd/education-platform/core"
	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/school"
	"github.com/AkmalxonWeBd/education-platform/core/session"
	logsvc "github.com/AkmalxonWeBd/education-platform/services/logger"
)

var logger core.Logger

func main() {
	std := log.New(os.Stderr, "DASHBOARD : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	if err != nil {
		std.Fatal(err)
	}
	logger = logsvc.NewRollbarLogger(std, conf)

	store := session.NewFileStore(conf.SessionPath)
	req := resource.NewHTTPRequester(conf.API.BaseURL, conf.API.Timeout, session.TokenFunc(store))
	cache := resource.NewClient(req, resource.OptionsFromConfig(conf, logger))

	cli := commandLine{
		conf:  conf,
		store: store,
		svc:   school.NewService(cache, store, logger),
		out:   os.Stdout,
		isTTY: stdoutIsTerminal,
	}
	err = cli.run(os.Args)
	cache.Close()
	if err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
