package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL string

	// FirestoreProject switches job persistence from Postgres to Firestore
	// when set.
	FirestoreProject string

	BlobDir     string
	BlobBaseURL string

	PromptEndpoint       string
	PromptKey            string
	PromptModel          string
	PromptTimeoutSeconds int
}

func ProvideConfig() Config {
	var cfg Config
	err := envconfig.Process("cochlea", &cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	return cfg
}

var Options = ProvideConfig
