package main

import (
	"context"
	"log"

	"github.com/goliatone/go-contractform/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("contractform: %v", err)
	}
}
