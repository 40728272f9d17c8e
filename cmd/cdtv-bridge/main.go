package main

import (
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/internal/cmd"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/internal/configpaths"
	"github.com/matsstaff/CDTV-PS2Mouse-Joy/internal/log"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.CandidatePaths(userCfg)

	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name("cdtv-bridge"),
		kong.Description("PS/2 mouse and joystick to CDTV infrared bridge"),
		kong.UsageOnError(),
		// Config files provide defaults; flags and env override.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closers, err := log.Setup(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	var tracer log.TraceLogger
	switch {
	case cli.Log.TraceFile != "":
		f, err := os.OpenFile(cli.Log.TraceFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open trace file", "file", cli.Log.TraceFile, "error", err)
			tracer = log.NewTrace(nil)
		} else {
			tracer = log.NewTrace(f)
			closers = append(closers, f)
		}
	case cli.Log.Level == "trace":
		tracer = log.NewTrace(os.Stdout)
	default:
		tracer = log.NewTrace(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(tracer, (*log.TraceLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("CDTVBRIDGE_CONFIG")
}
