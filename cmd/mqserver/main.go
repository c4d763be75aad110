/*
Mqserver starts a MenuQ server and begins listening for new connections.

Usage:

	mqserver [flags]
	mqserver [flags] -l [[ADDRESS]:PORT]

Once started, the MenuQ server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config via environment var). The flag
argument must be either a full address with port, such as "192.168.0.2:6001", or
just the port preceeded by a colon, such as ":6001".

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all session tokens are rendered invalid
as soon as the server shuts down.

The flags are:

	-v, --version
		Give the current version of the MenuQ server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		MENUQ_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable MENUQ_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable MENUQ_DATABASE, and if that is not
		given, an in-memory database is used.

	-c, --catalog FILE
		Serve orders from the menu catalog in FILE, a TOML or JSON file. If not
		given, will default to the value of environment variable MENUQ_CATALOG,
		and if that is not given, to data/menu.toml.

	--strategy NAME
		Read utterances of sessions that do not ask for a strategy with NAME,
		either "grammar" or "pattern". If not given, will default to the value
		of environment variable MENUQ_STRATEGY, and if that is not given, to
		"grammar".

	--budget STEPS
		Give up parsing an utterance with the grammar after STEPS parser steps.
		0 gives the default budget and a negative number removes the limit.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/internal/version"
	"github.com/HienLe2004/menuq/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen   = "MENUQ_LISTEN_ADDRESS"
	EnvSecret   = "MENUQ_TOKEN_SECRET"
	EnvDB       = "MENUQ_DATABASE"
	EnvCatalog  = "MENUQ_CATALOG"
	EnvStrategy = "MENUQ_STRATEGY"
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of the MenuQ server and then exit.")
	flagListen   = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret   = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB       = pflag.String("db", "", "Use the given DB connection string.")
	flagCatalog  = pflag.StringP("catalog", "c", "", "Serve orders from the given menu catalog file.")
	flagStrategy = pflag.String("strategy", "", "Default strategy for reading utterances: grammar or pattern.")
	flagBudget   = pflag.Int("budget", 0, "Parser step budget per utterance; 0 for the default, negative for none.")
)

// fromEnvOrFlag returns the value of the named flag if it was set, otherwise
// the value of the environment variable env.
func fromEnvOrFlag(env string, flagName string, flagVal *string) string {
	val := os.Getenv(env)
	if pflag.Lookup(flagName).Changed {
		val = *flagVal
	}
	return val
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (MenuQ v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	args := pflag.Args()

	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// get address info
	port := 0
	addr := ""
	listenAddr := fromEnvOrFlag(EnvListen, "listen", flagListen)
	if listenAddr != "" {
		bindParts := strings.SplitN(listenAddr, ":", 2)
		if len(bindParts) != 2 {
			fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
			os.Exit(1)
		}

		var err error

		addr = bindParts[0]
		port, err = strconv.Atoi(bindParts[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
			os.Exit(1)
		}
	}

	// assemble a server config
	var cfg server.Config

	if storeStr := fromEnvOrFlag(EnvDB, "db", flagDB); storeStr != "" {
		var err error
		cfg.Store, err = server.ParseStore(storeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid store: %s\nDo -h for help.\n", err)
			os.Exit(1)
		}
	}

	cfg.CatalogPath = fromEnvOrFlag(EnvCatalog, "catalog", flagCatalog)

	strat, err := pipeline.ParseStrategy(fromEnvOrFlag(EnvStrategy, "strategy", flagStrategy))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}
	cfg.Strategy = strat
	cfg.ParseBudget = *flagBudget

	// get token secret
	tokSecStr := fromEnvOrFlag(EnvSecret, "secret", flagSecret)
	if tokSecStr != "" {
		cfg.TokenSecret = []byte(tokSecStr)

		for len(cfg.TokenSecret) < server.MinSecretSize {
			doubled := make([]byte, len(cfg.TokenSecret)*2)
			copy(doubled, cfg.TokenSecret)
			copy(doubled[len(cfg.TokenSecret):], cfg.TokenSecret)
			cfg.TokenSecret = doubled
		}

		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
			os.Exit(1)
		}
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		_, err := rand.Read(cfg.TokenSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}

		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	// configuration complete, initialize the server
	mqs, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	log.Printf("INFO  Starting MenuQ server %s...", version.ServerCurrent)
	mqs.ServeForever(addr, port)
}
