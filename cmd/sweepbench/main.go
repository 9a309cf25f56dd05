package main

import (
	"context"
	"log"

	"github.com/nsqlite/sweepbench/internal/sweepbench"
)

func main() {
	if err := sweepbench.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
