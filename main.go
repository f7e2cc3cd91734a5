package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/pyjit/config"
	"github.com/pontaoski/pyjit/logger"
	"github.com/pontaoski/pyjit/reader"
	"github.com/pontaoski/pyjit/typeinfo"
)

func main() {
	app := &cli.App{
		Name:  "pyjit",
		Usage: "translate annotated Python functions to C++ and build them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the project's log level",
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "create a project file in the current directory",
				ArgsUsage: "<package>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return tracerr.New("no package name provided")
					}
					path := config.FileNames[0]
					if _, err := os.Stat(path); err == nil {
						return tracerr.Errorf("%s already exists", path)
					}

					p := config.New(name)
					if err := p.Validate(); err != nil {
						return tracerr.Wrap(err)
					}
					if err := p.Save(path); err != nil {
						return tracerr.Wrap(err)
					}
					fmt.Printf("created %s for %s\n", path, name)
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "translate tree files and compile them into a shared object",
				ArgsUsage: "[tree files...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the generated C++ and stop",
					},
					&cli.BoolFlag{
						Name:  "emit-only",
						Usage: "write the C++ and signature files without compiling",
					},
					&cli.BoolFlag{
						Name:  "keep-going",
						Usage: "build the functions that translate even when others fail",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "functions rendered at once, 0 for the project setting",
					},
				},
				Action: func(c *cli.Context) error {
					p, err := loadProject(c)
					if err != nil {
						return err
					}
					if w := c.Int("workers"); w > 0 {
						p.Workers = w
					}
					return build(c.Context, p, buildOptions{
						trees:     c.Args().Slice(),
						dump:      c.Bool("dump"),
						emitOnly:  c.Bool("emit-only"),
						keepGoing: c.Bool("keep-going"),
						out:       os.Stdout,
					})
				},
			},
			{
				Name:      "signatures",
				Usage:     "dump the signature table embedded in a built shared object",
				ArgsUsage: "<library>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print the table as JSON",
					},
				},
				Action: func(c *cli.Context) error {
					initLogger(c, nil)

					path := c.Args().First()
					if path == "" {
						return tracerr.New("no library provided")
					}
					table, err := reader.ReadSignatures(path)
					if err != nil {
						return err
					}

					if c.Bool("json") {
						data, err := typeinfo.EncodeTable(table)
						if err != nil {
							return tracerr.Wrap(err)
						}
						fmt.Println(string(data))
						return nil
					}
					repr.Println(table)
					return nil
				},
			},
			{
				Name:  "bind",
				Usage: "generate a Go cgo binding for the built module",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "from",
						Usage: "signature source: a .json table or a built library (default: the project's table)",
					},
					&cli.StringFlag{
						Name:  "package",
						Usage: "package clause of the generated file",
						Value: "main",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "file to write",
						Value: "pyjit_bind.go",
					},
				},
				Action: func(c *cli.Context) error {
					p, err := loadProject(c)
					if err != nil {
						return err
					}
					return bind(p, c.String("from"), c.String("package"), c.String("output"))
				},
			},
		},
	}
	app.Run(os.Args)
}

func initLogger(c *cli.Context, p *config.Project) {
	cfg := logger.DefaultConfig()
	if p != nil {
		cfg = p.LoggerConfig()
	}
	if lvl := c.String("log-level"); lvl != "" {
		if level, err := logger.ParseLevel(lvl); err == nil {
			cfg.Level = level
		}
	}
	logger.Init(cfg)
}

func loadProject(c *cli.Context) (*config.Project, error) {
	p, err := config.FindAndLoad(".")
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	if p == nil {
		return nil, tracerr.Errorf("no %s or %s found, run pyjit init first", config.FileNames[0], config.FileNames[1])
	}
	if err := p.Validate(); err != nil {
		return nil, tracerr.Wrap(err)
	}
	initLogger(c, p)
	return p, nil
}
