package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/habit/app"
	"github.com/kbukum/habit/config"
	"github.com/kbukum/habit/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (default: search ./cmd/habit, ./config, .)")
	envFile := flag.String("env", "", "path to a .env file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	if err := run(*configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "habit: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, envFile string) error {
	opts := []config.LoaderOption{config.WithEnvPrefix("HABIT")}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg app.Config
	if err := config.LoadConfig("habit", &cfg, opts...); err != nil {
		return err
	}

	a, err := app.New(&cfg)
	if err != nil {
		return err
	}
	return a.Run(context.Background())
}
