package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/danmuck/ircwire/internal/config"
	"github.com/danmuck/ircwire/internal/observability"
	"github.com/danmuck/ircwire/internal/protocol"
	"github.com/danmuck/ircwire/internal/protocol/frame"
	"github.com/danmuck/ircwire/internal/protocol/session"
	"github.com/danmuck/ircwire/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

const (
	version           = "0.1.0"
	defaultConfigPath = "ircwire.toml"

	formatJSON = "json"
	formatText = "text"
)

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "ircwire",
		Usage:     "decode, encode and serve IRC protocol lines",
		Version:   version,
		Writer:    a.out,
		ErrWriter: a.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML config file",
			},
		},
		Commands: []*cli.Command{
			a.decodeCommand(),
			a.encodeCommand(),
			a.serveCommand(),
			a.tapCommand(),
			a.configCommand(),
		},
	}
}

// setup loads the config named by --config, or defaults when unset, and
// installs the process logger from it.
func (a *app) setup(cmd *cli.Command) (config.Config, error) {
	cfg := config.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	observability.InitLogger(cfg.Name, cfg.LogConfig())
	return cfg, nil
}

func (a *app) decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode protocol lines from a file or stdin",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   formatJSON,
				Usage:   "output format: json|text",
			},
		},
		Action: a.decodeAction,
	}
}

func (a *app) decodeAction(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if format != formatJSON && format != formatText {
		return fmt.Errorf("unknown format %q", format)
	}
	cfg, err := a.setup(cmd)
	if err != nil {
		return err
	}
	in, closeIn, err := a.openInput(cmd.Args().First())
	if err != nil {
		return err
	}
	defer closeIn()

	emit := a.printer(format)
	r := bufio.NewReader(in)
	limits := cfg.Limits()
	lineNo, failed := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := frame.ReadLine(r, limits)
		switch {
		case err == nil, errors.Is(err, frame.ErrShortLine):
		case errors.Is(err, io.EOF):
			log.Debug().Int("lines", lineNo).Int("failed", failed).Msg("ircwire.decode done")
			if failed > 0 {
				return fmt.Errorf("%d of %d lines failed to decode", failed, lineNo)
			}
			return nil
		case errors.Is(err, frame.ErrLineTooLong):
			lineNo++
			failed++
			observability.RecordDecode(0, err)
			fmt.Fprintf(a.errOut, "line %d: %v\n", lineNo, err)
			continue
		default:
			return fmt.Errorf("line %d: %w", lineNo+1, err)
		}

		lineNo++
		msg, derr := protocol.Decode(line)
		observability.RecordDecode(len(line), derr)
		switch {
		case derr == nil:
			if err := emit(msg); err != nil {
				return err
			}
		case errors.Is(derr, protocol.ErrEmptyInput):
		default:
			failed++
			fmt.Fprintf(a.errOut, "line %d: %s: %v\n", lineNo, protocol.ErrorKind(derr), derr)
		}
	}
}

// openInput opens path, or returns stdin for "" and "-".
func (a *app) openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return a.in, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// printer renders decoded messages in format to a.out.
func (a *app) printer(format string) func(protocol.Message) error {
	if format == formatText {
		return func(msg protocol.Message) error {
			_, err := fmt.Fprintln(a.out, msg.String())
			return err
		}
	}
	enc := json.NewEncoder(a.out)
	return func(msg protocol.Message) error {
		return enc.Encode(server.ToJSON(msg))
	}
}

// encode takes its arguments verbatim: flag parsing would trim them and stop
// at the first empty one, which changes the trailing parameter.
func (a *app) encodeCommand() *cli.Command {
	return &cli.Command{
		Name:            "encode",
		Usage:           "encode a message and print its wire line",
		ArgsUsage:       "[:SOURCE] VERB [PARAM...]",
		SkipFlagParsing: true,
		Action:          a.encodeAction,
	}
}

func (a *app) encodeAction(ctx context.Context, cmd *cli.Command) error {
	if _, err := a.setup(cmd); err != nil {
		return err
	}
	msg, err := messageFromArgs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	line := protocol.Encode(msg)
	observability.RecordEncode(len(line))
	fmt.Fprintln(a.out, line)
	return nil
}

// messageFromArgs builds a Message from "[:SOURCE] VERB [PARAM...]". The last
// PARAM is the trailing parameter and is kept byte for byte.
func messageFromArgs(args []string) (protocol.Message, error) {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	var msg protocol.Message
	if len(args) > 0 && strings.HasPrefix(args[0], ":") {
		msg.Source = args[0][1:]
		if msg.Source == "" {
			return protocol.Message{}, errors.New("encode: empty source")
		}
		args = args[1:]
	}
	if len(args) == 0 {
		return protocol.Message{}, errors.New("encode: missing verb")
	}
	verb, err := protocol.ClassifyVerb(args[0])
	if err != nil {
		return protocol.Message{}, fmt.Errorf("encode: %q: %w", args[0], err)
	}
	msg.Verb = verb
	if len(args) > 1 {
		msg.Params = args[1:]
	}
	if err := msg.Validate(); err != nil {
		return protocol.Message{}, err
	}
	return msg, nil
}

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the codec over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides listen_addr",
			},
		},
		Action: a.serveAction,
	}
}

func (a *app) serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := a.setup(cmd)
	if err != nil {
		return err
	}
	addr := cfg.ListenAddr
	if override := cmd.String("addr"); override != "" {
		addr = override
	}
	srv := server.New(server.Options{
		Name:        cfg.Name,
		Addr:        addr,
		CorsOrigins: cfg.CorsOrigins,
		Limits:      cfg.Limits(),
	})
	return srv.Run(ctx)
}

func (a *app) tapCommand() *cli.Command {
	return &cli.Command{
		Name:  "tap",
		Usage: "connect to an IRC server, send lines and print what comes back",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "addr",
				Usage:    "server address, host:port",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "script",
				Usage: "file of raw lines to send after connecting, - for stdin",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   formatText,
				Usage:   "output format: json|text",
			},
		},
		Action: a.tapAction,
	}
}

func (a *app) tapAction(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if format != formatJSON && format != formatText {
		return fmt.Errorf("unknown format %q", format)
	}
	cfg, err := a.setup(cmd)
	if err != nil {
		return err
	}

	var outgoing []protocol.Message
	if path := cmd.String("script"); path != "" {
		in, closeIn, err := a.openInput(path)
		if err != nil {
			return err
		}
		outgoing, err = readScript(in, cfg.Limits())
		closeIn()
		if err != nil {
			return err
		}
	}

	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", cmd.String("addr"))
	if err != nil {
		return err
	}
	defer nc.Close()
	log.Info().Str("addr", nc.RemoteAddr().String()).Msg("ircwire.tap connected")

	conn, err := session.NewConn(nc, cfg.SessionConfig())
	if err != nil {
		return err
	}
	conn.Queue(outgoing...)
	if err := conn.Flush(); err != nil {
		return err
	}

	emit := a.printer(format)
	return session.Dispatch(ctx, conn, session.HandlerFuncs{
		OnMessage: func(msg protocol.Message) {
			_ = emit(msg)
		},
		OnError: func(line []byte, err error) {
			fmt.Fprintf(a.errOut, "%s: %v\n", protocol.ErrorKind(err), err)
		},
	})
}

// readScript decodes every non-blank line of in. Any bad line fails the whole
// script so nothing is sent.
func readScript(in io.Reader, limits frame.Limits) ([]protocol.Message, error) {
	r := bufio.NewReader(in)
	var msgs []protocol.Message
	for lineNo := 1; ; lineNo++ {
		line, err := frame.ReadLine(r, limits)
		if errors.Is(err, io.EOF) {
			return msgs, nil
		}
		if err != nil && !errors.Is(err, frame.ErrShortLine) {
			return nil, fmt.Errorf("script line %d: %w", lineNo, err)
		}
		msg, derr := protocol.Decode(line)
		switch {
		case derr == nil:
			msgs = append(msgs, msg)
		case errors.Is(derr, protocol.ErrEmptyInput):
		default:
			return nil, fmt.Errorf("script line %d: %w", lineNo, derr)
		}
	}
}

func (a *app) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage config files",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "write a config template",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "overwrite an existing file",
					},
				},
				Action: a.configInitAction,
			},
			{
				Name:      "check",
				Usage:     "validate a config file",
				ArgsUsage: "[path]",
				Action:    a.configCheckAction,
			},
		},
	}
}

func (a *app) configInitAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		path = defaultConfigPath
	}
	if err := config.WriteTemplate(path, cmd.Bool("force")); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote config template to %s\n", path)
	return nil
}

func (a *app) configCheckAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		path = defaultConfigPath
	}
	if _, err := config.Load(path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s ok\n", path)
	return nil
}
