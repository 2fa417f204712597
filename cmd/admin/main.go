package main

import (
	"classroom_backend/internal/config"
	"classroom_backend/internal/repository"
	"classroom_backend/internal/service"
	"classroom_backend/pkg/database"
	"classroom_backend/pkg/logger"
	"errors"
	"flag"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		color.Red("Failed to load config: %v", err)
		os.Exit(1)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	tx := service.NewTxManager(db, cfg.Database.LockTimeout)
	userRepo := repository.NewUserRepository(db)
	cli := &commandLine{
		db:    db,
		users: service.NewUserService(tx, userRepo, nil, nil, nil, nil, nil, nil, nil),
	}

	args := append([]string{os.Args[0]}, flag.Args()...)
	if err := cli.run(args); err != nil {
		if !errors.Is(err, errHelp) {
			color.Red("error: %s", err)
		}
		os.Exit(1)
	}
}
