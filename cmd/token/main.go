// Command token mints a development credential signed with the configured
// secret, standing in for the login service when running locally.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/domain"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	var (
		id       = pflag.String("id", "", "user id claim")
		username = pflag.String("username", "", "display name claim")
		ttl      = pflag.Duration("ttl", time.Hour, "credential lifetime")
		file     = pflag.StringP("config", "c", "", "config file (default config/config.<CONFIG_ENV>.yaml)")
		secret   = pflag.String("secret", "", "signing secret, overrides the config file")
	)
	pflag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *file != "" {
		cfg, err = config.LoadFile(*file)
	} else {
		cfg, err = config.Load()
	}
	if err != nil && *secret == "" {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	key, issuer := *secret, ""
	if cfg != nil {
		issuer = cfg.Auth.Issuer
		if key == "" {
			key = cfg.Secret
		}
	}

	user, err := domain.NewUser(*id, *username)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid user")
	}
	authn, err := auth.NewAuthenticator(key, issuer, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build authenticator")
	}
	token, err := authn.Issue(*user, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign credential")
	}
	fmt.Println(token)
}
