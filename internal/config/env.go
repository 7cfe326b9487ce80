package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file loaded when --env-file is not given
const DefaultEnvFile = ".env"

// LoadEnvFile loads a dotenv file into the process environment.
// Variables that are already set keep their values. A missing default file is
// ignored; a missing explicit file is an error.
func LoadEnvFile(path string, explicit bool) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	log.Printf("[config] loaded env file %s", path)
	return nil
}
