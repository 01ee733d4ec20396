package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/config"
	"github.com/vancomm/treasure-sweeper/internal/records"
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
	flag.Parse()

	cfg, err := config.Read(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.SetupLogging(log); err != nil {
		log.Fatal(err)
	}

	dbUrl, ok := cfg.DbUrl()
	if !ok {
		log.Fatal("no database configured: set DATABASE_URL or the postgres section of the config")
	}

	version, err := records.Migrate(dbUrl)
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("version", version).Info("migration successful")
}
