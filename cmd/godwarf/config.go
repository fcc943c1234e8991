package godwarf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// defaultConfig is the template gopkg.in/yaml.v2 marshals for `config init`.
// Its keys mirror the --verbose and --log-file PersistentFlags; initConfig
// loads the saved file, but its values are not applied to those flags.
type defaultConfig struct {
	Verbose bool   `yaml:"verbose"`
	LogFile string `yaml:"log_file"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the godwarf config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .godwarf.yaml to the home directory",
	RunE:  runConfigInit,
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	path := filepath.Join(home, ".godwarf.yaml")

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	out, err := yaml.Marshal(defaultConfig{Verbose: false, LogFile: ""})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}
