package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Auth struct {
		TokenSignKey         string   `json:"token_sign_key"`
		TokenIssuer          string   `json:"token_issuer"`
		AccessTokenDuration  Duration `json:"access_token_duration"`
		RefreshTokenDuration Duration `json:"refresh_token_duration"`
		RememberMeKey        string   `json:"remember_me_key"`
		TOTPIssuer           string   `json:"totp_issuer"`
		BcryptCost           int      `json:"bcrypt_cost"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Mailer struct {
		Endpoint string `json:"endpoint"`
		APIKey   string `json:"api_key"`
		From     string `json:"from"`
		BaseURL  string `json:"base_url"`
	} `json:"mailer,omitempty"`

	Workers struct {
		JanitorInterval Duration `json:"janitor_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Auth: Auth{
			TokenSignKey:         jsonCfg.Auth.TokenSignKey,
			TokenIssuer:          jsonCfg.Auth.TokenIssuer,
			AccessTokenDuration:  time.Duration(jsonCfg.Auth.AccessTokenDuration),
			RefreshTokenDuration: time.Duration(jsonCfg.Auth.RefreshTokenDuration),
			RememberMeKey:        jsonCfg.Auth.RememberMeKey,
			TOTPIssuer:           jsonCfg.Auth.TOTPIssuer,
			BcryptCost:           jsonCfg.Auth.BcryptCost,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Mailer: Mailer{
			Endpoint: jsonCfg.Mailer.Endpoint,
			APIKey:   jsonCfg.Mailer.APIKey,
			From:     jsonCfg.Mailer.From,
			BaseURL:  jsonCfg.Mailer.BaseURL,
		},
		Workers: Workers{
			JanitorInterval: time.Duration(jsonCfg.Workers.JanitorInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
