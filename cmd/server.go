package cmd

import (
	"context"
	"errors"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"stock-screener/internal/delivery/http"
	"stock-screener/internal/repository"
	"stock-screener/internal/service"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the screener API and, when enabled, the job scheduler",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(appDep.cfg, appDep.cache, appDep.db.DB, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache)
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, services, appDep.log)

	var scheduler *cron.Cron
	if appDep.cfg.Scheduler.Enabled {
		scheduler = cron.New(cron.WithLocation(utils.GetWibTimeLocation()))
		_, err := scheduler.AddFunc(appDep.cfg.Scheduler.TickCron, func() {
			if err := services.SchedulerService.Execute(ctx); err != nil {
				appDep.log.Error("Scheduler tick failed", logger.ErrorField(err))
			}
		})
		if err != nil {
			log.Fatalf("Invalid scheduler.tick_cron %q: %v", appDep.cfg.Scheduler.TickCron, err)
		}
		scheduler.Start()
		appDep.log.Info("Scheduler started", logger.StringField("tick_cron", appDep.cfg.Scheduler.TickCron))
	}

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, httpNet.ErrServerClosed) {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	appDep.log.Info("Shutting down gracefully")

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	if err := apiServer.Stop(); err != nil {
		appDep.log.Error("Failed to stop HTTP server", logger.ErrorField(err))
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
