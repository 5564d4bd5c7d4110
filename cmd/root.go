package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"lending/config"
	"lending/core"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

const configEnv = "LENDING_CONFIG"

var (
	cfgFile   string
	cfg       core.Config
	debugMode bool
	logFormat string
	ready     bool
)

var rootCmd = cobra.Command{
	Use:   "lending",
	Short: "collateralized lending engine",
}

func init() {
	cobra.OnInitialize(setup)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", fmt.Sprintf("config file, falls back to $%s then ~/.lending.yaml", configEnv))
	flags.BoolVar(&debugMode, "debug", false, "enable debug logging")
	flags.StringVar(&logFormat, "log-format", "text", "log format, text or json")
}

// Execute runs the root command, called once by main.main
func Execute(ver string) {
	rootCmd.Version = ver
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setup() {
	if ready {
		return
	}

	setupLogging()

	file := resolveConfigFile()
	if file != "" {
		logrus.WithField("file", file).Debugln("load config")
	}

	if err := config.Load(file, &cfg); err != nil {
		logrus.WithError(err).Fatalln("load config")
	}

	structs.DefaultTagName = "json"
	ready = true
}

func resolveConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}

	if f := os.Getenv(configEnv); f != "" {
		return f
	}

	dir, err := homedir.Dir()
	if err != nil {
		logrus.WithError(err).Debugln("resolve home dir")
		return ""
	}

	filename := filepath.Join(dir, ".lending.yaml")
	if info, err := os.Stat(filename); err == nil && !info.IsDir() {
		return filename
	}

	return ""
}

func setupLogging() {
	level := logrus.InfoLevel
	if debugMode {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	switch logFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
