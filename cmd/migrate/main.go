package main

import (
	"flag"
	"fmt"
	"happystack/internal/db"
	"os"

	"github.com/caarlos0/env/v6"
)

type config struct {
	PostgresqlURL  string `env:"POSTGRESQL_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s up|down\n", os.Args[0])
	}
	flag.Parse()

	up := true
	switch flag.Arg(0) {
	case "up":
	case "down":
		up = false
	default:
		flag.Usage()
		os.Exit(2)
	}

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := db.Migrate("file://"+cfg.MigrationsPath, cfg.PostgresqlURL, up); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
	fmt.Printf("migrate %s: done\n", flag.Arg(0))
}
