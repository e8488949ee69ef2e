package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/hotelkeys/internal/config"
	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
	"git.home.luguber.info/inful/hotelkeys/internal/version"
)

// Global carries the process streams into subcommands.
type Global struct {
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
}

// DefaultGlobal binds the standard streams.
func DefaultGlobal() *Global {
	return &Global{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path" default:"hotelkeys.yaml"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	DataFile string           `name:"data-file" help:"Room data file (overrides configuration)"`
	Backend  string           `help:"Storage backend: json or sqlite (overrides configuration)"`
	Rooms    int              `help:"Number of rooms to create when no data exists (overrides configuration)"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Menu     MenuCmd     `cmd:"" default:"1" help:"Interactive menu (default)"`
	Status   StatusCmd   `cmd:"" help:"Show the status of every room"`
	Checkin  CheckInCmd  `cmd:"" help:"Check a guest into a room"`
	Checkout CheckOutCmd `cmd:"" help:"Check the guest out of a room"`
	History  HistoryCmd  `cmd:"" help:"List completed stays"`
	Watch    WatchCmd    `cmd:"" help:"Live room status, redrawn when the data file changes"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.setLogger(slog.New(slog.NewTextHandler(g.Err, &slog.HandlerOptions{Level: level})))
	return nil
}

// LoadConfig loads the configuration file and applies the global flag overrides.
// The logger is rebuilt from the loaded logging settings.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}

	if c.DataFile != "" {
		cfg.Data.File = c.DataFile
	}
	if c.Backend != "" {
		cfg.Data.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	}
	if c.Rooms != 0 {
		cfg.Hotel.TotalRooms = c.Rooms
	}
	if err := config.Validate(cfg); err != nil {
		return nil, herrors.ConfigInvalid(c.Config, err)
	}

	g.setLogger(cfg.Logging.NewLogger(g.Err, c.Verbose))
	return cfg, nil
}

func (g *Global) setLogger(logger *slog.Logger) {
	g.Logger = logger
	slog.SetDefault(logger)
}

// Execute parses args and runs the selected command. The returned CLI is
// never nil so callers can consult global flags when handling the error.
func Execute(ctx context.Context, args []string, g *Global, opts ...kong.Option) (*CLI, error) {
	cli := &CLI{}
	options := append([]kong.Option{
		kong.Name("hotelkeys"),
		kong.Description("Track hotel room occupancy: check-in, check-out, status and stay history."),
		kong.UsageOnError(),
		kong.Writers(g.Out, g.Err),
		kong.Vars{"version": version.String()},
		kong.Bind(g, cli),
		kong.BindTo(ctx, (*context.Context)(nil)),
	}, opts...)

	parser, err := kong.New(cli, options...)
	if err != nil {
		return cli, herrors.InternalError("failed to build command line parser", err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return cli, herrors.InvalidInput("arguments", err.Error())
	}
	return cli, kctx.Run()
}
