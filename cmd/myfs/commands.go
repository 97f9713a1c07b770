package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	pz "github.com/weberc2/httpeasy"

	"github.com/weberc2/myfs/pkg/filesystem"
	myio "github.com/weberc2/myfs/pkg/io"
	"github.com/weberc2/myfs/pkg/objectstore"
	"github.com/weberc2/myfs/pkg/server"
	. "github.com/weberc2/myfs/pkg/types"
)

type env struct {
	config *Config
	logger *log.Logger
	volume *myio.FileVolume
	fs     *filesystem.FileSystem
}

func withConfig(f func(*env, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		config, err := LoadConfig(ctx.String("config"))
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if device := ctx.String("device"); device != "" {
			config.Device = device
		}
		if err := config.Validate(); err != nil {
			return err
		}
		logger, err := config.Logger()
		if err != nil {
			return err
		}
		return f(&env{config: config, logger: logger}, ctx)
	}
}

func withVolume(f func(*env, *cli.Context) error) cli.ActionFunc {
	return withConfig(func(e *env, ctx *cli.Context) (err error) {
		e.volume, err = myio.OpenFileVolume(e.config.Device, e.config.Capacity)
		if err != nil {
			return fmt.Errorf("opening volume: %w", err)
		}
		defer func() {
			if closeErr := e.volume.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("closing volume: %w", closeErr)
			}
		}()
		return f(e, ctx)
	})
}

func withFileSystem(f func(*env, *cli.Context) error) cli.ActionFunc {
	return withVolume(func(e *env, ctx *cli.Context) error {
		fs, err := filesystem.Initialize(filesystem.FileSystemParams{
			Volume:        e.volume,
			CacheCapacity: e.config.CacheCapacity,
			Logger:        e.logger.WithField("device", e.config.Device),
		})
		if err != nil {
			return fmt.Errorf("initializing filesystem: %w", err)
		}
		e.fs = fs
		return f(e, ctx)
	})
}

func pathArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() < 1 {
		return "", fmt.Errorf("missing required argument: PATH")
	}
	return ctx.Args().First(), nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to JSON: %w", err)
	}
	if _, err := fmt.Printf("%s\n", data); err != nil {
		return fmt.Errorf("writing JSON to stdout: %w", err)
	}
	return nil
}

func cat(e *env, ctx *cli.Context) error {
	path, err := pathArg(ctx)
	if err != nil {
		return err
	}
	data, err := e.fs.ReadContent(path)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("writing content to stdout: %w", err)
	}
	return nil
}

func write(e *env, ctx *cli.Context) error {
	path, err := pathArg(ctx)
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if file := ctx.String("file"); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening content file: %w", err)
		}
		defer f.Close()
		r = f
	}

	// anything larger than the data region could never be stored
	limit := int64(e.fs.Geometry().DataSize()) + 1
	data, err := ioutil.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}

	if ctx.Bool("create") {
		if err := ensureFile(e.fs, path); err != nil {
			return err
		}
	}
	if err := e.fs.WriteContent(path, data); err != nil {
		return err
	}
	e.logger.WithField("path", path).Infof("wrote %d bytes", len(data))
	return nil
}

// ensureFile creates an empty file at `path` unless something already lives
// there.
func ensureFile(fs *filesystem.FileSystem, path string) error {
	if _, err := fs.Resolve(path); err != nil {
		if !errors.Is(err, NotFoundErr) {
			return err
		}
		return fs.CreateFile(path)
	}
	return nil
}

func ls(e *env, ctx *cli.Context) error {
	infos, err := e.fs.ListEntries(ctx.Args().First())
	if err != nil {
		return err
	}
	if ctx.Bool("json") {
		return printJSON(infos)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		kind := "file"
		if info.IsDir {
			kind = "dir"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", info.Name, kind, info.Size, info.Index)
	}
	return w.Flush()
}

func stat(e *env, ctx *cli.Context) error {
	info, err := e.fs.Stat(ctx.Args().First())
	if err != nil {
		return err
	}
	return printJSON(info)
}

func df(e *env, ctx *cli.Context) error {
	usage, err := e.fs.Usage()
	if err != nil {
		return err
	}
	return printJSON(usage)
}

func serve(e *env, ctx *cli.Context) error {
	addr := e.config.Addr
	if a := ctx.String("addr"); a != "" {
		addr = a
	}

	e.logger.WithField("addr", addr).Info("listening")
	if err := http.ListenAndServe(
		addr,
		pz.Register(
			pz.JSONLog(os.Stderr),
			(&server.Server{FileSystem: e.fs}).Routes()...,
		),
	); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

func imageStore(e *env) (objectstore.ObjectStore, error) {
	if err := e.config.ValidateImage(); err != nil {
		return nil, err
	}
	s3, err := objectstore.NewS3ObjectStore()
	if err != nil {
		return nil, err
	}
	return &objectstore.GzipObjectStore{ObjectStore: s3}, nil
}

func imagePush(e *env, ctx *cli.Context) error {
	store, err := imageStore(e)
	if err != nil {
		return err
	}

	key := ctx.String("key")
	if key == "" {
		key = objectstore.ImageKey(e.config.Prefix, ctx.String("label"))
	}
	if err := objectstore.PushImage(
		store,
		e.config.Bucket,
		key,
		e.volume,
	); err != nil {
		return err
	}
	e.logger.Infof("pushed image to s3://%s/%s", e.config.Bucket, key)
	fmt.Println(key)
	return nil
}

func imagePull(e *env, ctx *cli.Context) error {
	store, err := imageStore(e)
	if err != nil {
		return err
	}

	key := ctx.String("key")
	if err := objectstore.PullImage(
		store,
		e.config.Bucket,
		key,
		e.volume,
	); err != nil {
		return err
	}
	e.logger.Infof("pulled image from s3://%s/%s", e.config.Bucket, key)
	return nil
}

func imageList(e *env, ctx *cli.Context) error {
	store, err := imageStore(e)
	if err != nil {
		return err
	}
	keys, err := objectstore.ListImages(
		store,
		e.config.Bucket,
		e.config.Prefix,
		ctx.String("label"),
	)
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}
