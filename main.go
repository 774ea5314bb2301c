package main

import (
	"os"

	"github.com/andrewvmail/win-c-hjkl/internal/configpaths"
	"github.com/andrewvmail/win-c-hjkl/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name(appName),
		kong.Description("CapsLock as Control, Ctrl+H/J/K/L as arrow keys"),
		kong.UsageOnError(),
		// Flags and environment override configuration files.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx.Bind(logger)
	ctx.BindTo(NewAutostart(), (*Autostart)(nil))

	err = ctx.Run()
	if err != nil {
		logger.Error("exiting", "error", err)
	}
	for _, c := range closeFiles {
		_ = c.Close()
	}
	ctx.FatalIfErrorf(err)
}
