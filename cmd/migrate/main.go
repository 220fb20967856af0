package main

import (
	"flag"
	"fmt"
	"os"
	"taskHub/internal/config"
	"taskHub/internal/database"
	"taskHub/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к файлу конфигурации")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "использование: %s [-config path] up|down\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "конфигурация: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Development); err != nil {
		fmt.Fprintf(os.Stderr, "логгер: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch flag.Arg(0) {
	case "up":
		err = database.Migrate(cfg.Database.URL)
	case "down":
		err = database.Down(cfg.Database.URL)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("Database: Миграция не выполнена", err)
		logger.Sync()
		os.Exit(1)
	}
}
