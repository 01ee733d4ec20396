package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/app"
	"github.com/vancomm/treasure-sweeper/internal/config"
)

var (
	log = logrus.New()

	configPath string
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	cfg, err := config.Read(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.SetupLogging(log); err != nil {
		log.Fatal(err)
	}

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	a := app.New(cfg, logrus.NewEntry(log))
	if err := a.Start(mainCtx); err != nil {
		log.Fatalf("exit reason: %s", err)
	}
	log.Info("shut down")
}
