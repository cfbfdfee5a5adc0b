package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// CredentialsEnv holds the service-account JSON in CI
const CredentialsEnv = "FIREBASE_KEY"

// InitError is a startup failure; the process stops without retrying
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialization failed: %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Credentials is a resolved service-account key
type Credentials struct {
	JSON []byte
	// Source is the env var name or file path it came from
	Source string
}

// ResolveCredentials prefers the JSON payload in FIREBASE_KEY and falls back
// to the credentials file
func (c Config) ResolveCredentials() (Credentials, error) {
	return resolveCredentials(os.LookupEnv, os.ReadFile, c.CredentialsFile)
}

func resolveCredentials(lookup func(string) (string, bool), readFile func(string) ([]byte, error), file string) (Credentials, error) {
	if v, ok := lookup(CredentialsEnv); ok {
		creds := Credentials{JSON: []byte(v), Source: CredentialsEnv}
		if err := checkServiceAccount(creds.JSON); err != nil {
			return Credentials{}, &InitError{Op: "parse " + CredentialsEnv, Err: err}
		}
		return creds, nil
	}

	if file == "" {
		return Credentials{}, &InitError{Op: "resolve credentials", Err: errors.New("no credentials file configured and " + CredentialsEnv + " is unset")}
	}
	data, err := readFile(file)
	if err != nil {
		return Credentials{}, &InitError{Op: "read credentials", Err: err}
	}
	if err := checkServiceAccount(data); err != nil {
		return Credentials{}, &InitError{Op: "parse " + file, Err: err}
	}
	return Credentials{JSON: data, Source: file}, nil
}

func checkServiceAccount(data []byte) error {
	var key struct {
		Type        string `json:"type"`
		ProjectID   string `json:"project_id"`
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return fmt.Errorf("credentials are not valid JSON: %w", err)
	}
	if key.ClientEmail == "" {
		return errors.New("credentials have no client_email")
	}
	return nil
}
