package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"strings"
	"syscall"
	"unicode"

	"github.com/andrewvmail/win-c-hjkl/internal/configpaths"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// CLI is the root command line.
type CLI struct {
	Config string   `help:"Configuration file (json, yaml or toml)" type:"path" env:"WIN_C_HJKL_CONFIG"`
	Log    LogFlags `embed:"" prefix:"log."`

	Run       RunCmd       `cmd:"" default:"withargs" help:"Install the keyboard hook and stay in the tray (default)"`
	Autostart AutostartCmd `cmd:"" help:"Start with Windows at login"`
	Cfg       ConfigCmd    `cmd:"" name:"config" help:"Configuration helpers"`
}

type LogFlags struct {
	Level string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"WIN_C_HJKL_LOG_LEVEL"`
	File  string `help:"Also write logs to this file. At trace level this records every remapped key" type:"path" env:"WIN_C_HJKL_LOG_FILE"`
}

// traceBuffer is how many key events the hook queues for trace logging
// before it starts dropping them.
const traceBuffer = 256

// RunCmd is the resident remapper.
type RunCmd struct {
	NoTray bool `help:"Run without a tray icon; stop with Ctrl+C" env:"WIN_C_HJKL_NO_TRAY"`
}

// Run is called by Kong when the run command is executed.
func (r *RunCmd) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remapper := NewRemapper(NewInjector(), NewKeyState())
	app := &App{
		hook:   NewKeyboardHook(remapper, traceBuffer),
		tray:   newTray(r.NoTray, logger),
		logger: logger,
	}
	// Without a tray the console is the only way to stop the process.
	if !r.NoTray && launchedFromGUI() {
		app.onStarted = hideConsole
	}
	return app.Run(ctx)
}

// AutostartCmd groups the login startup subcommands.
type AutostartCmd struct {
	Enable  AutostartEnable  `cmd:"" help:"Start at login"`
	Disable AutostartDisable `cmd:"" help:"Do not start at login"`
	Status  AutostartStatus  `cmd:"" help:"Show whether starting at login is enabled"`
}

type AutostartEnable struct{}

func (AutostartEnable) Run(logger *slog.Logger, a Autostart) error {
	if err := a.Enable(); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	logger.Info("Autostart enabled")
	return nil
}

type AutostartDisable struct{}

func (AutostartDisable) Run(logger *slog.Logger, a Autostart) error {
	if err := a.Disable(); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	logger.Info("Autostart disabled")
	return nil
}

type AutostartStatus struct{}

func (AutostartStatus) Run(logger *slog.Logger, a Autostart) error {
	logger.Info("Autostart", "enabled", a.IsEnabled())
	return nil
}

// ConfigCmd groups config-related subcommands.
type ConfigCmd struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file holding every flag's default.
type ConfigInit struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"yaml"`
	Output string `help:"Destination file path (defaults to the user config directory)" type:"path"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

func (c *ConfigInit) Run(logger *slog.Logger) error {
	root := map[string]any{}
	templateValues(reflect.TypeOf(CLI{}), root)
	templateValues(reflect.TypeOf(RunCmd{}), root)
	delete(root, "config")

	dest := c.Output
	if dest == "" {
		p, err := configpaths.DefaultConfigPath(c.Format)
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		dest = p
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var data []byte
	var err error
	switch c.Format {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	default:
		return fmt.Errorf("unsupported format: %s", c.Format)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	logger.Info("Configuration template written", "path", dest)
	return nil
}

// templateValues collects the flags of t with their defaults. Embedded flag
// groups are nested under their prefix, which Kong's resolvers walk when a
// dotted flag name has no direct match.
func templateValues(t reflect.Type, out map[string]any) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("kong") == "-" {
			continue
		}
		if _, ok := f.Tag.Lookup("cmd"); ok {
			continue
		}
		if _, ok := f.Tag.Lookup("embed"); ok {
			sub := out
			if group := strings.TrimSuffix(f.Tag.Get("prefix"), "."); group != "" {
				sub = map[string]any{}
				out[group] = sub
			}
			templateValues(f.Type, sub)
			continue
		}

		name := f.Tag.Get("name")
		if name == "" {
			name = kebab(f.Name)
		}
		out[strings.ReplaceAll(name, "-", "_")] = defaultValue(f.Type, f.Tag.Get("default"))
	}
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// defaultValue converts a default tag to the field's type. A tag that does not
// parse is a bug in the flag declarations, so it panics.
func defaultValue(t reflect.Type, def string) any {
	switch t.Kind() {
	case reflect.Bool:
		if def == "" {
			return false
		}
		v, err := strconv.ParseBool(def)
		if err != nil {
			panic(fmt.Sprintf("invalid bool default %q: %v", def, err))
		}
		return v
	case reflect.Int, reflect.Int32, reflect.Int64:
		if def == "" {
			return 0
		}
		v, err := strconv.Atoi(def)
		if err != nil {
			panic(fmt.Sprintf("invalid int default %q: %v", def, err))
		}
		return v
	default:
		return def
	}
}

// findUserConfig looks for an explicit config file before Kong parses, so it
// can be handed to the configuration loaders.
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
	return os.Getenv("WIN_C_HJKL_CONFIG")
}
