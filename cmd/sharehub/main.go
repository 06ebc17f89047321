package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/dalemusser/sharehub/internal/app/bootstrap"
	"github.com/dalemusser/sharehub/internal/app/chat"
	"github.com/dalemusser/sharehub/internal/app/cli"
	accountstore "github.com/dalemusser/sharehub/internal/app/store/accounts"
	groupstore "github.com/dalemusser/sharehub/internal/app/store/groups"
	profilestore "github.com/dalemusser/sharehub/internal/app/store/profiles"
	"github.com/dalemusser/sharehub/internal/app/system/auth"
	"go.uber.org/zap"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	coreCfg, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	deps, err := bootstrap.ConnectDB(connectCtx, appCfg, logger)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = bootstrap.Shutdown(shutdownCtx, deps, logger)
	}()

	if err := bootstrap.EnsureSchema(ctx, deps, logger); err != nil {
		return err
	}

	db := deps.MongoDatabase
	store := chat.New(logger, auth.NewManager(),
		accountstore.New(db), profilestore.New(db), groupstore.New(db))

	return cli.NewRunner(store, os.Stdin, os.Stdout).Run(ctx)
}
