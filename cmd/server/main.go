package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/believe-gautam/travel-planner-api/internal/app"
)

func main() {
	ctx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	//Create AppConfig with all initialization
	appConfig, err := app.SetAppConfig()
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	addr := ":" + appConfig.Config.HTTPPort

	srv := &http.Server{
		Addr:    addr,
		Handler: appConfig.Router,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		sig := <-sigCh
		log.Printf("received signal %v, initiating graceful shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("graceful shutdown error: %v", err)
		}
		// Cancel root context so ALL goroutines & requests stop
		log.Println("Shutdown done...Cancelling all goroutines which are still running")
		rootCancel()
		close(idleConnsClosed)
	}()

	log.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
	<-idleConnsClosed
	log.Printf("server stopped")
}
