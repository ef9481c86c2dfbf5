package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rook-computer/hubcrest/internal/app"
	"github.com/rook-computer/hubcrest/internal/config"
	"github.com/rook-computer/hubcrest/internal/web"
)

func main() {
	listenAddr := flag.String("listen", "127.0.0.1:8090", "http listen address")
	scenario := flag.String("scenario", scenarioBoosted, "simulated guild scenario: boosted | unboosted | offline")
	outDir := flag.String("out", "/tmp/hubcrest-sim", "directory received images are written to")
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	logger := app.NewLogger(os.Stderr, *verbose)

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	control := NewSimControl(filepath.Clean(*outDir), *scenario)
	if err := control.ApplyScenario(*scenario); err != nil {
		fmt.Println("scenario init error:", err)
		os.Exit(2)
	}

	server := web.NewHTTPServer(*listenAddr, control.Handler())
	server.Logger = logger
	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}

	base := "http://" + server.ListenAddr()
	fmt.Println("Hubcrest guild simulator listening on", server.ListenAddr())
	fmt.Println("Scenario:", control.Scenario())
	fmt.Println("Images:", *outDir)
	fmt.Printf("Try: %s=%s hubcrest apply --api-base %s --guild %s\n", config.EnvDiscordToken, simToken, base, simGuildID)

	<-processCtx.Done()
	_ = server.Stop()
}
