package main

import (
	"fmt"
	"os"

	"github.com/ayo6706/fx-converter/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fx-converter: %v\n", err)
		os.Exit(1)
	}
}
