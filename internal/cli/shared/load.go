package shared

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/testnotifier/testnotifier/internal/config"
	clierrors "github.com/testnotifier/testnotifier/internal/errors"
)

// LoadConfig loads the dotenv file and the layered configuration for cmd,
// applying the notifier flags the user set on top.
func LoadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	fs := cmd.Flags()

	envFile, _ := fs.GetString("env-file")
	if err := config.LoadEnvFile(envFile, fs.Changed("env-file")); err != nil {
		return nil, clierrors.EnvFileError(envFile, err)
	}

	configPath, _ := fs.GetString("config")
	explicit := fs.Changed("config")
	cfg, err := config.Load(config.LoadOptions{
		ProjectPath:    configPath,
		RequireProject: explicit,
		Overrides:      FlagOverrides(fs),
	})
	if err != nil {
		if explicit && errors.Is(err, os.ErrNotExist) {
			return nil, clierrors.ConfigFileNotFound(configPath)
		}
		return nil, clierrors.ConfigParseError(configPath, err)
	}
	return cfg, nil
}

// SetupLogging routes the standard logger to w when debug is set and
// discards it otherwise.
func SetupLogging(debug bool, w io.Writer) {
	if !debug {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(w)
	log.SetFlags(log.Ltime | log.Lmicroseconds)
}

// ReportError prints err to w unless it only carries an exit code
func ReportError(w io.Writer, err error) {
	if err == nil || IsExitError(err) {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	io.WriteString(w, clierrors.FormatSimpleError(err, clierrors.Argument))
}
