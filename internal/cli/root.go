// Package cli implements the sourcelens command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sourcelens/internal/server"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sourcelens",
	Short: "SourceLens - news source credibility lookup and scoring",
	Long: `SourceLens resolves article URLs to their publishing source and reports
credibility and bias metadata for it.

Scores are weighted for the context the source is used in: what kind of
claim it backs and what role it plays as evidence. For any leaning source,
SourceLens can suggest credible outlets from the other side of the
spectrum as counternarratives.

SourceLens reports what media-credibility raters have measured.
It does not decide what is true.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sourcelens v" + server.Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sourcelens.yaml or $HOME/.sourcelens/sourcelens.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "source database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file, .env and SOURCELENS_* environment
// variables.
func initConfig() {
	// API keys commonly live in a .env next to the database.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sourcelens")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".sourcelens"))
		}
	}

	// SOURCELENS_STORE_PATH overrides store.path, and so on.
	viper.SetEnvPrefix("SOURCELENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
