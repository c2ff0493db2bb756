package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-access-token-duration access token duration (e.g., "15m")
//	-refresh-token-duration refresh token duration (e.g., "24h")
//	-remember-me-key remember-me signing key
//	-totp-issuer issuer label for provisioning URIs
//	-bcrypt-cost bcrypt work factor
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-mailer-endpoint mail API endpoint
//	-mailer-api-key mail API key
//	-mailer-from outgoing mail sender address
//	-base-url public frontend base URL for mail links
//	-janitor-interval denylist purge interval (e.g., "1h")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var accessTokenDuration time.Duration
	var refreshTokenDuration time.Duration
	var rememberMeKey string
	var totpIssuer string
	var bcryptCost int
	var requestTimeout time.Duration
	var mailerEndpoint string
	var mailerAPIKey string
	var mailerFrom string
	var baseURL string
	var janitorInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&accessTokenDuration, "access-token-duration", 0, "Access token duration (e.g., 15m)")
	flag.DurationVar(&refreshTokenDuration, "refresh-token-duration", 0, "Refresh token duration (e.g., 24h)")
	flag.StringVar(&rememberMeKey, "remember-me-key", "", "Remember-me signing key")
	flag.StringVar(&totpIssuer, "totp-issuer", "", "TOTP provisioning issuer label")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt work factor (0 = library default)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&mailerEndpoint, "mailer-endpoint", "", "Mail API endpoint")
	flag.StringVar(&mailerAPIKey, "mailer-api-key", "", "Mail API key")
	flag.StringVar(&mailerFrom, "mailer-from", "", "Outgoing mail sender address")
	flag.StringVar(&baseURL, "base-url", "", "Public frontend base URL for mail links")
	flag.DurationVar(&janitorInterval, "janitor-interval", 0, "Denylist purge interval (e.g., 1h)")

	flag.Parse()

	return &StructuredConfig{
		Auth: Auth{
			TokenSignKey:         tokenSignKey,
			TokenIssuer:          tokenIssuer,
			AccessTokenDuration:  accessTokenDuration,
			RefreshTokenDuration: refreshTokenDuration,
			RememberMeKey:        rememberMeKey,
			TOTPIssuer:           totpIssuer,
			BcryptCost:           bcryptCost,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Mailer: Mailer{
			Endpoint: mailerEndpoint,
			APIKey:   mailerAPIKey,
			From:     mailerFrom,
			BaseURL:  baseURL,
		},
		Workers: Workers{
			JanitorInterval: janitorInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
