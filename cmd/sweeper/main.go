package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/treasure-sweeper/internal/config"
	"github.com/vancomm/treasure-sweeper/internal/fixture"
	"github.com/vancomm/treasure-sweeper/internal/game"
	"github.com/vancomm/treasure-sweeper/internal/textview"
)

var (
	log = logrus.New()

	configPath string
	difficulty string
	boardPath  string
	policyName string
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.StringVar(&difficulty, "difficulty", "", "beginner, intermediate or expert")
	flag.StringVar(&boardPath, "board", "", "play the fixed board from this CSV file")
	flag.StringVar(&policyName, "policy", "", "rules a board file must follow: none, classic or relaxed")
}

// setupLogging keeps log lines off the terminal the game is drawn on.
// Without a log file only warnings reach stderr, unless a level is set.
func setupLogging(cfg config.Config) error {
	if err := cfg.SetupLogging(log); err != nil {
		return err
	}
	if cfg.Log.File != "" {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(os.Stderr)
	if cfg.Log.Level == "" {
		log.SetLevel(logrus.WarnLevel)
	}
	return nil
}

func setupGame(cfg config.Config) (game.Params, []game.SessionOption, error) {
	if boardPath == "" {
		name := cfg.Difficulty
		if difficulty != "" {
			name = difficulty
		}
		params, ok := game.ParseDifficulty(name)
		if !ok {
			return params, nil, fmt.Errorf("unknown difficulty %q", name)
		}
		return params, nil, nil
	}

	policy, err := fixture.PolicyByName(policyName)
	if err != nil {
		return game.Params{}, nil, err
	}
	layout, err := fixture.Load(boardPath)
	if err != nil {
		return game.Params{}, nil, err
	}
	if err := policy.Validate(layout); err != nil {
		return game.Params{}, nil, fmt.Errorf("%s: %w", boardPath, err)
	}
	return layout.Params(), layout.SessionOptions(), nil
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	cfg, err := config.Read(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := setupLogging(cfg); err != nil {
		log.Fatal(err)
	}

	params, options, err := setupGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(cfg.Fields()).WithField("params", params.String()).Debug("config")

	view := textview.New(os.Stdout)
	options = append(options, game.WithLogger(log.WithField("component", "session")))
	session, err := game.NewSession(params, view, options...)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	// unblocks the pending read when interrupted
	context.AfterFunc(ctx, func() { os.Stdin.Close() })

	err = textview.Run(ctx, os.Stdin, session, view)
	if ctx.Err() != nil {
		fmt.Println()
		return
	}
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
