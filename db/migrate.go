package main

import (
	"flag"
	"log"

	"spotifake/internal/postgres"
)

var (
	db     = flag.String("database", "spotifake", "")
	host   = flag.String("host", "localhost", "")
	port   = flag.Int("port", 5432, "")
	user   = flag.String("user", "postgres", "")
	pass   = flag.String("password", "", "")
	source = flag.String("source", "file://db/migrations", "")
	down   = flag.Bool("down", false, "revert every applied migration")
)

func main() {
	flag.Parse()
	c := postgres.Config{
		Host:       *host,
		Port:       *port,
		Name:       *db,
		Username:   *user,
		Password:   *pass,
		DisableSSL: true,
	}

	run := postgres.Migrate
	if *down {
		run = postgres.Rollback
	}
	if err := run(c, *source); err != nil {
		log.Fatal(err)
	}
}
