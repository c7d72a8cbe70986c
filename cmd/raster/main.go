package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/raster"
	"github.com/bodgit/raster/config"
	"github.com/urfave/cli/v2"
)

const defaultConfig = "raster.yml"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// newRegistry builds a registry with the encoding settings from the
// configuration file and any overriding flags applied.
func newRegistry(c *cli.Context) (*raster.Registry, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	quality := cfg.Quality
	if c.Int("quality") > 0 {
		quality = c.Int("quality")
	}
	colors := cfg.Colors
	if c.Int("colors") > 0 {
		colors = c.Int("colors")
	}

	reg := raster.NewRegistry()
	reg.Register(raster.BMP{}, "bmp")
	reg.Register(raster.PNG{}, "png")
	reg.Register(raster.JPEG{Quality: quality}, "jpg", "jpeg")
	reg.Register(raster.GIF{NumColors: colors}, "gif")
	reg.Register(raster.QOI{}, "qoi")
	reg.Register(raster.WebP{Quality: float32(quality), Lossless: c.Bool("lossless")}, "webp")

	return reg, nil
}

func openLibrary(c *cli.Context) (*raster.Library, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	db := c.String("db")
	if db == "" {
		db = cfg.Database
	}

	l, err := raster.New(db, newLogger(c))
	if err != nil {
		return nil, err
	}
	if cfg.Workers > 0 {
		l.Workers = cfg.Workers
	}

	return l, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "raster"
	app.Usage = "image file identification, conversion and cataloguing utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"RASTER_DB"},
			Usage:   "path to catalog database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"RASTER_CONFIG"},
			Value:   defaultConfig,
			Usage:   "path to configuration file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "identify",
			Usage:       "Identify image files",
			Description: "Probes each FILE against every known format and prints its format and dimensions.",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				reg := raster.DefaultRegistry()
				for _, file := range c.Args().Slice() {
					m, f, err := reg.DecodeFile(file)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					b := m.Bounds()
					fmt.Printf("%s: %s %dx%d\n", file, f.Name(), b.Dx(), b.Dy())
				}

				return nil
			},
		},
		{
			Name:        "convert",
			Usage:       "Convert an image file to another format",
			Description: "Decodes SOURCE by probing its content and encodes it in the format matching the extension of TARGET.",
			ArgsUsage:   "SOURCE TARGET",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "quality",
					Aliases: []string{"q"},
					Usage:   "lossy encoding quality",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "GIF palette size",
				},
				&cli.BoolFlag{
					Name:  "lossless",
					Usage: "encode WebP losslessly",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				reg, err := newRegistry(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				source, target := c.Args().Get(0), c.Args().Get(1)

				f := reg.FormatForExtension(target)
				if f == nil {
					return cli.NewExitError(fmt.Errorf("no format claims \"%s\"", filepath.Ext(target)), 1)
				}

				m, _, err := reg.DecodeFile(source)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				out, err := os.Create(target)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := f.Encode(out, m); err != nil {
					out.Close()
					return cli.NewExitError(err, 1)
				}

				if err := out.Close(); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan a directory tree into the catalog",
			Description: "Walks DIRECTORY and records every decodable image file with a thumbnail in the catalog database.",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				if err := l.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "thumb",
			Usage:       "Extract the cataloged thumbnail of a file",
			Description: "Writes the stored thumbnail of FILE as an uncompressed bitmap, next to FILE unless OUTPUT is given.",
			ArgsUsage:   "FILE [OUTPUT]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				file := c.Args().First()

				thumb, err := l.Thumbnail(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if thumb == nil {
					return cli.NewExitError(fmt.Errorf("no thumbnail for \"%s\"", file), 1)
				}

				out := c.Args().Get(1)
				if out == "" {
					out = strings.TrimSuffix(file, filepath.Ext(file)) + "_thumb.bmp"
				}

				if err := os.WriteFile(out, thumb, 0o644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List cataloged files",
			Description: "",
			Action: func(c *cli.Context) error {
				l, err := openLibrary(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer l.Close()

				if err := l.Each(func(e raster.Entry) error {
					_, err := fmt.Printf("%s\t%s\t%dx%d\t%d\n", e.Path, e.Format, e.Width, e.Height, e.Size)
					return err
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
