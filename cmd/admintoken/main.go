// Command admintoken prints a bearer token for the admin API.
// It reads JWT_SECRET, JWT_ISSUER and JWT_AUDIENCE the same way the server does.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ayo6706/fx-converter/internal/app"
	"github.com/ayo6706/fx-converter/internal/config"
)

func main() {
	subject := flag.String("subject", "ops", "token subject, logged on admin requests")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "admintoken: %v\n", err)
		os.Exit(1)
	}
	token, err := app.IssueAdminToken(cfg, *subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "admintoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
