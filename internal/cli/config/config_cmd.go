package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/testnotifier/testnotifier/internal/cli/shared"
	cfgpkg "github.com/testnotifier/testnotifier/internal/config"
	clierrors "github.com/testnotifier/testnotifier/internal/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit testnotifier configuration",
		Long: `Inspect and edit testnotifier configuration.

Configuration is layered, highest priority first:
  1. Command-line flags (--notifier-*)
  2. Environment variables (TESTNOTIFIER_*, after loading --env-file)
  3. Project config (--config, default .testnotifier.yml)
  4. User config (~/.config/testnotifier/config.yml)
  5. Built-in defaults`,
		GroupID: shared.GroupConfiguration,
	}
	cmd.AddCommand(newShowCmd(), newGetCmd(), newSetCmd(), newInitCmd(), newKeysCmd())
	return cmd
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Example: `  # Effective configuration as YAML
  testnotifier config show

  # As JSON, with a flag override applied
  testnotifier config show --json --notifier-type both`,
		Args: cobra.NoArgs,
		RunE: runShow,
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of YAML")
	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}
	values := cfg.Values()
	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print the effective value of one configuration key",
		Example: `  testnotifier config get notifier_type`,
		Args:    cobra.ExactArgs(1),
		RunE:    runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if _, err := cfgpkg.GetKeySchema(key); err != nil {
		return clierrors.UnknownConfigKey(key, cfgpkg.SortedKeys())
	}
	cfg, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cfg.Values()[key])
	return nil
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the user or project config.

By default, sets the value in the user-level config (~/.config/testnotifier/config.yml).
Use --project to set it in the project config named by --config.

The value is validated against the key's type before the file is written.`,
		Example: `  # Play a sound as well as showing a banner
  testnotifier config set notifier_type both

  # Project-specific failure title
  testnotifier config set notifier_onfail_title "api tests failed" --project

  # Use gotestsum as the test command
  testnotifier config set test_command "gotestsum --jsonfile /dev/stdout"`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}
	cmd.Flags().Bool("user", false, "Set in user-level config (default)")
	cmd.Flags().Bool("project", false, "Set in project-level config")
	cmd.MarkFlagsMutuallyExclusive("user", "project")
	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if _, err := cfgpkg.GetKeySchema(key); err != nil {
		return clierrors.UnknownConfigKey(key, cfgpkg.SortedKeys())
	}
	if _, err := cfgpkg.ValidateValue(key, value); err != nil {
		return clierrors.NewArgumentError(err.Error(), "Run 'testnotifier config keys' to see the accepted values")
	}

	filePath, scope, err := resolveConfigPath(cmd)
	if err != nil {
		return err
	}
	if !isYAML(filePath) {
		return clierrors.NewConfigError(
			fmt.Sprintf("cannot edit %s: config set only writes YAML files", filePath),
			"Edit the JSON file by hand, or point --config at a .yml file",
		)
	}

	if err := cfgpkg.SetConfigValue(filePath, key, value); err != nil {
		return clierrors.ConfigParseError(filePath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s config (%s)\n", key, value, scope, filePath)
	return nil
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file with the default values",
		Example: `  # Project config (.testnotifier.yml)
  testnotifier config init

  # User config, replacing an existing one
  testnotifier config init --user --force`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	cmd.Flags().Bool("user", false, "Write the user-level config instead of the project config")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	filePath, scope := "", "project"
	if user, _ := cmd.Flags().GetBool("user"); user {
		p, err := cfgpkg.UserConfigPath()
		if err != nil {
			return clierrors.Wrap(err, clierrors.Configuration)
		}
		filePath, scope = p, "user"
	} else {
		filePath, _ = cmd.Flags().GetString("config")
	}
	force, _ := cmd.Flags().GetBool("force")

	if err := cfgpkg.WriteTemplate(filePath, force); err != nil {
		if errors.Is(err, cfgpkg.ErrConfigExists) {
			return clierrors.NewConfigError(
				fmt.Sprintf("config file already exists: %s", filePath),
				"Re-run with --force to overwrite it",
			)
		}
		return clierrors.Wrap(err, clierrors.Configuration)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s config (%s)\n", scope, filePath)
	return nil
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List all available configuration keys",
		Long:  `Display all valid configuration keys with their types, defaults and descriptions.`,
		Args:  cobra.NoArgs,
		RunE:  runKeys,
	}
}

func runKeys(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available configuration keys:")
	fmt.Fprintln(out)

	for _, key := range cfgpkg.SortedKeys() {
		schema := cfgpkg.KnownKeys[key]
		typeInfo := schema.Type.String()
		if schema.Type == cfgpkg.TypeEnum {
			typeInfo = fmt.Sprintf("enum (%s)", strings.Join(schema.AllowedValues, ", "))
		}
		fmt.Fprintf(out, "  %-28s %s (default: %q)\n", key, typeInfo, fmt.Sprint(schema.Default))
		fmt.Fprintf(out, "    %s\n", schema.Description)
		fmt.Fprintln(out)
	}
	return nil
}

// resolveConfigPath returns the file 'config set' writes to
func resolveConfigPath(cmd *cobra.Command) (filePath, scope string, err error) {
	if project, _ := cmd.Flags().GetBool("project"); project {
		filePath, _ = cmd.Flags().GetString("config")
		return filePath, "project", nil
	}
	userPath, err := cfgpkg.UserConfigPath()
	if err != nil {
		return "", "", clierrors.Wrap(err, clierrors.Configuration)
	}
	return userPath, "user", nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return false
	default:
		return true
	}
}
