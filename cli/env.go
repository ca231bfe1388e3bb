package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultEnvFile = ".env"

// environWithEnvFile returns the process environment extended with the
// variables of the --env-file. Process variables win over file entries.
func environWithEnvFile(cmd *cobra.Command) (func() []string, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return os.Environ, nil
	}
	info, err := os.Stat(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return os.Environ, nil
		}
		return nil, fmt.Errorf("failed to stat env file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("env file path '%s' is not a regular file", envFile)
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return func() []string {
		environ := os.Environ()
		for key, value := range fileVars {
			if slices.ContainsFunc(environ, func(kv string) bool { return strings.HasPrefix(kv, key+"=") }) {
				continue
			}
			environ = append(environ, key+"="+value)
		}
		return environ
	}, nil
}
