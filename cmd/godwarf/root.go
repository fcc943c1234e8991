// Package godwarf implements the godwarf CLI: commands for dumping the
// ELF and DWARF debugging information of an object file.
package godwarf

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd is the base command when godwarf is called without a subcommand.
var RootCmd = &cobra.Command{
	Use:   "godwarf",
	Short: "An ELF/DWARF debugging information decoder",
	Long: `godwarf decodes ELF object files and their embedded DWARF debugging
information: sections, symbols, compilation units and debugging information
entries (DIEs).`,
}

// Execute runs RootCmd; subcommands attach themselves to it in their
// files' init functions. Called once from main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.godwarf.yaml)")
}

// initConfig loads a config file into viper, if one is present, enables
// environment-variable lookup, and reports which file it used. Nothing in
// godwarf requires a config file, and no command reads values back from
// viper: the --verbose and --log-file flags are not overridden by it.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".godwarf")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
