// Command pgmeta reads table and column metadata from a PostgreSQL (or MySQL)
// catalog and prints, publishes or serves it as a typed schema snapshot.
//
// Usage:
//
//	PGMETA_DSN=postgres://... pgmeta dump -schema public -format yaml
//	PGMETA_DSN=postgres://... pgmeta dump -publish
//	PGMETA_DSN=postgres://... pgmeta serve -config pgmeta.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/koustreak/pgmeta/internal/config"
	"github.com/koustreak/pgmeta/internal/database"
	"github.com/koustreak/pgmeta/internal/database/mysql"
	"github.com/koustreak/pgmeta/internal/database/postgres"
	"github.com/koustreak/pgmeta/internal/errs"
	"github.com/koustreak/pgmeta/internal/filestore"
	"github.com/koustreak/pgmeta/internal/filestore/minio"
	"github.com/koustreak/pgmeta/internal/logger"
	"github.com/koustreak/pgmeta/internal/schema"
	"github.com/koustreak/pgmeta/internal/server"
	"github.com/koustreak/pgmeta/internal/snapshot"
)

const usage = `usage: pgmeta <command> [flags]

commands:
  dump    fetch a snapshot and print it (or publish it with -publish)
  serve   run the HTTP API
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "dump":
		err = dump(ctx, args[1:], stdout, stderr)
	case "serve":
		err = serve(ctx, args[1:], stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "pgmeta %s: %v\n", args[0], err)
		if errs.IsInvalidInput(err) {
			return 2
		}
		return 1
	}
	return 0
}

// schemaList collects repeated -schema flags; each value may be a comma list.
type schemaList []string

func (s *schemaList) String() string { return strings.Join(*s, ",") }

func (s *schemaList) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		*s = append(*s, strings.TrimSpace(name))
	}
	return nil
}

type dumpFlags struct {
	config  string
	schemas schemaList
	format  string
	publish bool
}

func parseDump(args []string, stderr io.Writer) (*dumpFlags, error) {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &dumpFlags{}
	fs.StringVar(&f.config, "config", "", "path to a YAML config file")
	fs.Var(&f.schemas, "schema", "schema to read (repeatable, overrides config)")
	fs.StringVar(&f.format, "format", "", "json or yaml (overrides config)")
	fs.BoolVar(&f.publish, "publish", false, "upload the snapshot to object storage instead of printing it")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

func dump(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, err := parseDump(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	if len(f.schemas) > 0 {
		cfg.Introspect.Schemas = f.schemas
	}
	if f.format != "" {
		cfg.Export.Format = f.format
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log := logger.New(cfg.LoggerConfig())
	ctx = log.WithContext(ctx)

	db, err := openDB(ctx, cfg.DatabaseConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	in := schema.NewIntrospector(schema.NewSource(db), cfg.IntrospectOptions(), log)
	tables, err := in.Fetch(ctx, cfg.Introspect.Schemas)
	if err != nil {
		return err
	}

	if !f.publish {
		format, _ := snapshot.ParseFormat(cfg.Export.Format)
		return snapshot.Encode(stdout, tables, format)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := cfg.PublishOptions()
	opts.Schemas = cfg.Introspect.Schemas
	res, err := snapshot.Publish(ctx, store, opts, tables)
	if err != nil {
		return err
	}
	log.Info("snapshot published", logger.Fields{"bucket": res.Bucket, "key": res.Key, "tables": len(tables)})
	fmt.Fprintln(stdout, res.Key)
	return nil
}

func serve(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	addr := fs.String("addr", "", "listen address (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}

	log := logger.New(cfg.LoggerConfig())

	db, err := openDB(ctx, cfg.DatabaseConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	opts := server.Options{DefaultSchemas: cfg.Introspect.Schemas}
	if cfg.PublishEnabled() {
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
		opts.Publish = cfg.PublishOptions()
	}

	in := schema.NewIntrospector(schema.NewSource(db), cfg.IntrospectOptions(), log)
	srv := server.New(db, in, opts, log)
	return srv.ListenAndServe(ctx, server.Config{
		Addr:            cfg.HTTP.Addr,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	})
}

func openDB(ctx context.Context, cfg *database.Config) (database.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case database.DriverMySQL:
		d, err := mysql.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		d, err := postgres.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

func openStore(ctx context.Context, cfg *config.Config) (filestore.Store, error) {
	if !cfg.PublishEnabled() {
		return nil, errs.New(errs.ErrKindInvalidInput, "publishing needs export.endpoint (PGMETA_S3_ENDPOINT)")
	}
	d, err := minio.New(ctx, cfg.StoreConfig())
	if err != nil {
		return nil, err
	}
	return d, nil
}
