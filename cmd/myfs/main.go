package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:        appName,
		Usage:       "a tiny filesystem on a fixed-size volume",
		Description: "manage the files on a volume image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration file",
				Value:   DefaultConfigFile(),
			},
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Usage:   "volume image file; overrides the configuration",
			},
		},
		Commands: []*cli.Command{{
			Name:        "format",
			Aliases:     []string{"mkfs"},
			Description: "destroy the volume's content and create an empty root",
			Action: withFileSystem(func(e *env, ctx *cli.Context) error {
				return e.fs.Format()
			}),
		}, {
			Name:        "mkdir",
			ArgsUsage:   "PATH",
			Description: "create an empty directory",
			Action: withFileSystem(func(e *env, ctx *cli.Context) error {
				path, err := pathArg(ctx)
				if err != nil {
					return err
				}
				return e.fs.CreateDir(path)
			}),
		}, {
			Name:        "touch",
			ArgsUsage:   "PATH",
			Description: "create an empty file",
			Action: withFileSystem(func(e *env, ctx *cli.Context) error {
				path, err := pathArg(ctx)
				if err != nil {
					return err
				}
				return e.fs.CreateFile(path)
			}),
		}, {
			Name:        "cat",
			ArgsUsage:   "PATH",
			Description: "write a file's content to stdout",
			Action:      withFileSystem(cat),
		}, {
			Name:        "write",
			ArgsUsage:   "PATH",
			Description: "replace a file's content with stdin or --file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "file",
					Aliases: []string{"f"},
					Usage:   "read the content from this host file",
				},
				&cli.BoolFlag{
					Name:  "create",
					Usage: "create the file first if it doesn't exist",
				},
			},
			Action: withFileSystem(write),
		}, {
			Name:        "ls",
			ArgsUsage:   "[PATH]",
			Description: "list a directory's entries",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "json", Usage: "print JSON"},
			},
			Action: withFileSystem(ls),
		}, {
			Name:        "stat",
			ArgsUsage:   "PATH",
			Description: "print an entry's metadata as JSON",
			Action:      withFileSystem(stat),
		}, {
			Name:        "df",
			Description: "print space and inode usage as JSON",
			Action:      withFileSystem(df),
		}, {
			Name:        "serve",
			Description: "serve the filesystem over HTTP",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "addr",
					Usage: "listen address; overrides the configuration",
				},
			},
			Action: withFileSystem(serve),
		}, {
			Name:        "image",
			Description: "snapshot volume images to S3",
			Subcommands: []*cli.Command{{
				Name:        "push",
				Description: "upload the whole volume image",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "label",
						Usage: "human-readable image label",
						Value: appName,
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "explicit object key; generated from the label if unset",
					},
				},
				Action: withVolume(imagePush),
			}, {
				Name:        "pull",
				Description: "overwrite the volume with a stored image",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "key",
						Usage:    "object key of the image",
						Required: true,
					},
				},
				Action: withVolume(imagePull),
			}, {
				Name:        "list",
				Aliases:     []string{"ls"},
				Description: "list the stored images for a label",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "label",
						Usage: "human-readable image label",
						Value: appName,
					},
				},
				Action: withConfig(imageList),
			}},
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
