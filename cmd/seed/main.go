// Command seed registers a handful of demo accounts against a running
// Passgate server, so a fresh install has something to log in with.
package main

import (
	"flag"
	"log"

	"github.com/passgate/passgate/internal/client"
)

var accounts = []struct {
	email    string
	password string
}{
	{"alice@example.com", "correct-horse"},
	{"bob@example.com", "battery-staple"},
	{"carol@example.com", "hunter2hunter2"},
	{"dave@example.com", "opensesame99"},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Passgate server URL")
	login := flag.Bool("login", true, "log each account in so it holds a token")
	flag.Parse()

	log.Printf("Seeding accounts at %s...", *baseURL)

	for _, a := range accounts {
		c := client.New(*baseURL)
		if err := c.Signup(a.email, a.password); err != nil {
			if err == client.ErrEmailTaken {
				log.Printf("- %s already registered", a.email)
			} else {
				log.Fatalf("signup %s: %v", a.email, err)
			}
		} else {
			log.Printf("✓ Registered %s", a.email)
		}

		if *login {
			if _, err := c.Login(a.email, a.password); err != nil {
				log.Fatalf("login %s: %v", a.email, err)
			}
			log.Printf("✓ Issued token for %s", a.email)
		}
	}

	accountsCount, tokens, err := client.New(*baseURL).Stats()
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	log.Printf("Done: %d accounts, %d tokens issued", accountsCount, tokens)
}
