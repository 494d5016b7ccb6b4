package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"

	"github.com/oomph-ac/aero/settings"
	"github.com/oomph-ac/aero/simulation"
)

var CLI struct {
	Debug bool `help:"Whether to enable debug logging."`

	Run struct {
		Ticks     int    `help:"Number of ticks to simulate." default:"600"`
		Latency   int    `help:"One-way latency of the simulated link in ticks. Overrides the settings file." default:"-1"`
		DropEvery int    `help:"Drop every Nth message sent over the simulated link. Overrides the settings file." default:"-1"`
		Config    string `help:"Settings file to load." type:"path"`
		Pprof     bool   `help:"Serve runtime statistics on localhost:8080."`
		Trace     string `help:"Only trace corrections on the peer with this role (simulated, autonomous or authority)."`
		SentryDSN string `help:"Sentry DSN crashes are reported to." name:"sentry-dsn" env:"SENTRY_DSN"`
	} `cmd:"" help:"Run the glide demo scene."`

	Config struct {
		Path string `help:"Where to write the default settings." default:"aero.toml" type:"path"`
	} `cmd:"" help:"Write the default settings file."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	ctx := kong.Parse(&CLI,
		kong.Name("aero"),
		kong.Description("server authoritative glide movement demo"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		log.SetLevel(logrus.DebugLevel)
		log.Warn("debug logging enabled")
	}

	switch ctx.Command() {
	case "run":
		if err := runCommand(log); err != nil {
			writeError(err)
		}
	case "config":
		if err := settings.SaveDefault(CLI.Config.Path); err != nil {
			writeError(err)
		}
		log.Infof("wrote default settings to %s", CLI.Config.Path)
	}
}

func runCommand(log *logrus.Logger) error {
	set := settings.DefaultSettings()
	if path := CLI.Run.Config; path != "" {
		loaded, err := settings.Load(path)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		set = loaded
	}
	if CLI.Run.Latency >= 0 {
		set.Network.LatencyTicks = CLI.Run.Latency
	}
	if CLI.Run.DropEvery >= 0 {
		set.Network.DropEvery = CLI.Run.DropEvery
	}

	if CLI.Run.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: CLI.Run.SentryDSN}); err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if CLI.Run.Pprof {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	trace := simulation.RoleNone
	if CLI.Run.Trace != "" {
		role, err := simulation.ParseRole(CLI.Run.Trace)
		if err != nil {
			return err
		}
		trace = role
	}
	return runScene(log, set, CLI.Run.Ticks, CLI.Debug, trace)
}
