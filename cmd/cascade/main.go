package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	cascadecmd "github.com/hadronlab/cascade/internal/cmd/cascade"
)

func main() {
	cfg, err := cascadecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[CASCADE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cascadecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to simulate: %v", err)
	}
}
