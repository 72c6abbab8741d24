package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/yourusername/agent-orchestrator/internal/app"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	banner := color.New(color.FgCyan, color.Bold)
	banner.Printf("🤖 Agent Orchestrator v%s\n", version)
	fmt.Printf("🔄 Initializing (build %s, commit %s)...\n", buildTime, gitCommit)

	application, err := app.New()
	if err != nil {
		fmt.Printf("❌ Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	server := app.NewServer(application)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		fmt.Println("\n👋 Gracefully shutting down...")
		cancel()
	}()

	fmt.Printf("✅ Application ready\n")
	if err := server.Run(ctx); err != nil {
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)
	}
}
