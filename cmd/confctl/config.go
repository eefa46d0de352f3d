package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confhub/confhub/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `View and modify CLI configuration settings.

Configuration is stored in ~/.config/confctl/config.yaml (or $XDG_CONFIG_HOME/confctl/config.yaml).

Available configuration keys:
  server  ConfHub server URL (default: https://confhub.dev)
  email   Default login email`,
	Example: `  # List all config values
  confctl config list

  # Get a specific config value
  confctl config get server

  # Set a config value
  confctl config set server http://localhost:8080`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  `Get the value of a configuration key.`,
	Example: `  confctl config get server
  confctl config get email`,
	Args:              cobra.ExactArgs(1),
	RunE:              runConfigGet,
	ValidArgsFunction: completeConfigKeys,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  `Set a configuration key to a specific value.`,
	Example: `  confctl config set server http://localhost:8080
  confctl config set email ada@example.com`,
	Args:              cobra.ExactArgs(2),
	RunE:              runConfigSet,
	ValidArgsFunction: completeConfigKeysAndValues,
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all configuration values",
	Long:    `Display all configuration keys and their current values.`,
	Example: `  confctl config list`,
	Args:    cobra.NoArgs,
	RunE:    runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if !cli.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %s\nValid keys: %s", key, strings.Join(configKeyStrings(), ", "))
	}

	cfg, err := cli.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value, err := cfg.GetConfigValue(key)
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	if !cli.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %s\nValid keys: %s", key, strings.Join(configKeyStrings(), ", "))
	}

	cfg, err := cli.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.SetConfigValue(key, value); err != nil {
		return err
	}

	if err := cli.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s = %s\n", key, value)
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, key := range cli.ValidConfigKeys() {
		value, _ := cfg.GetConfigValue(string(key))
		fmt.Printf("%s = %s\n", key, value)
	}

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := cli.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println(path)
	return nil
}

func configKeyStrings() []string {
	keys := cli.ValidConfigKeys()
	result := make([]string, len(keys))
	for i, k := range keys {
		result[i] = string(k)
	}
	return result
}

// completeConfigKeys provides tab completion for config keys
func completeConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, key := range cli.ValidConfigKeys() {
		if strings.HasPrefix(string(key), toComplete) {
			completions = append(completions, string(key))
		}
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeConfigKeysAndValues provides tab completion for config set
func completeConfigKeysAndValues(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		// Complete key names
		return completeConfigKeys(cmd, args, toComplete)
	case 1:
		// Complete values based on key
		if cli.ConfigKey(args[0]) == cli.ConfigKeyServer {
			suggestions := []string{"https://confhub.dev", "http://localhost:8080"}
			var completions []string
			for _, v := range suggestions {
				if strings.HasPrefix(v, toComplete) {
					completions = append(completions, v)
				}
			}
			return completions, cobra.ShellCompDirectiveNoFileComp
		}
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}
