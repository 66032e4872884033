package main

import (
	"context"
	cryptorand "crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/urfave/cli/v2"

	"github.com/privacybydesign/irmaseal-go/pkg/irmaseal"
	"github.com/privacybydesign/irmaseal-go/pkg/irmaseal/logging"
)

func main() {
	app := &cli.App{
		Name:    "irmaseal",
		Usage:   "seal and unseal streams with identity-based hybrid encryption",
		Version: irmaseal.LibraryVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
		},
		Commands: []*cli.Command{
			setupCommand,
			extractCommand,
			sealCommand,
			unsealCommand,
			batchSealCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loggerFromContext(c *cli.Context) (logging.Logger, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logging.New(slog.New(handler)), nil
}

var setupCommand = &cli.Command{
	Name:  "setup",
	Usage: "generate a fresh PublicKey/MasterKey pair for a PKG",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pk-out", Required: true, Usage: "output path for the public key"},
		&cli.StringFlag{Name: "mk-out", Required: true, Usage: "output path for the master key"},
	},
	Action: func(c *cli.Context) error {
		pk, mk, err := irmaseal.Setup(cryptorand.Reader)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.String("pk-out"), pk.Marshal(), 0o644); err != nil {
			return fmt.Errorf("writing public key: %w", err)
		}
		if err := os.WriteFile(c.String("mk-out"), mk.Marshal(), 0o600); err != nil {
			return fmt.Errorf("writing master key: %w", err)
		}
		return nil
	},
}

var extractCommand = &cli.Command{
	Name:  "extract",
	Usage: "issue a UserSecretKey for an Identity",
	Flags: identityFlags(
		&cli.StringFlag{Name: "mk", Required: true, Usage: "path to the master key"},
		&cli.StringFlag{Name: "usk-out", Required: true, Usage: "output path for the user secret key"},
	),
	Action: func(c *cli.Context) error {
		mkBytes, err := os.ReadFile(c.String("mk"))
		if err != nil {
			return err
		}
		mk, err := irmaseal.UnmarshalMasterKey(mkBytes)
		if err != nil {
			return err
		}

		id, err := identityFromFlags(c)
		if err != nil {
			return err
		}

		usk, err := mk.ExtractUSK(cryptorand.Reader, id)
		if err != nil {
			return err
		}
		return os.WriteFile(c.String("usk-out"), usk.Marshal(), 0o600)
	},
}

var sealCommand = &cli.Command{
	Name:  "seal",
	Usage: "seal a file to an Identity",
	Flags: identityFlags(
		&cli.StringFlag{Name: "pk", Required: true, Usage: "path to the public key"},
		&cli.StringFlag{Name: "in", Required: true, Usage: "plaintext input path"},
		&cli.StringFlag{Name: "out", Required: true, Usage: "sealed output path"},
	),
	Action: func(c *cli.Context) error {
		logger, err := loggerFromContext(c)
		if err != nil {
			return err
		}

		pkBytes, err := os.ReadFile(c.String("pk"))
		if err != nil {
			return err
		}
		pk, err := irmaseal.UnmarshalPublicKey(pkBytes)
		if err != nil {
			return err
		}

		id, err := identityFromFlags(c)
		if err != nil {
			return err
		}

		return sealFile(id, pk, c.String("in"), c.String("out"), logger)
	},
}

var unsealCommand = &cli.Command{
	Name:  "unseal",
	Usage: "unseal a file with a UserSecretKey",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "usk", Required: true, Usage: "path to the user secret key"},
		&cli.StringFlag{Name: "in", Required: true, Usage: "sealed input path"},
		&cli.StringFlag{Name: "out", Required: true, Usage: "plaintext output path"},
	},
	Action: func(c *cli.Context) error {
		logger, err := loggerFromContext(c)
		if err != nil {
			return err
		}

		uskBytes, err := os.ReadFile(c.String("usk"))
		if err != nil {
			return err
		}
		usk, err := irmaseal.UnmarshalUserSecretKey(uskBytes)
		if err != nil {
			return err
		}

		verified, err := unsealFile(usk, c.String("in"), c.String("out"), logger)
		if err != nil {
			return err
		}
		if !verified {
			return cli.Exit("unseal completed but MAC verification failed: output is NOT trustworthy", 2)
		}
		return nil
	},
}

// batchManifestEntry names one seal job inside a batch-seal manifest.
type batchManifestEntry struct {
	In  string `yaml:"in"`
	Out string `yaml:"out"`
}

var batchSealCommand = &cli.Command{
	Name:  "batch-seal",
	Usage: "seal every file in a YAML manifest to the same Identity, concurrently",
	Flags: identityFlags(
		&cli.StringFlag{Name: "pk", Required: true, Usage: "path to the public key"},
		&cli.StringFlag{Name: "manifest", Required: true, Usage: "YAML file listing {in, out} pairs"},
	),
	Action: func(c *cli.Context) error {
		logger, err := loggerFromContext(c)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(c.String("config"))
		if err != nil {
			return err
		}

		pkBytes, err := os.ReadFile(c.String("pk"))
		if err != nil {
			return err
		}
		pk, err := irmaseal.UnmarshalPublicKey(pkBytes)
		if err != nil {
			return err
		}

		id, err := identityFromFlags(c)
		if err != nil {
			return err
		}

		manifestBytes, err := os.ReadFile(c.String("manifest"))
		if err != nil {
			return err
		}
		var entries []batchManifestEntry
		if err := yaml.Unmarshal(manifestBytes, &entries); err != nil {
			return fmt.Errorf("parsing manifest: %w", err)
		}

		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(cfg.Concurrency)

		for _, entry := range entries {
			entry := entry
			g.Go(func() error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err := os.MkdirAll(filepath.Dir(entry.Out), 0o755); err != nil {
					return err
				}
				return sealFile(id, pk, entry.In, entry.Out, logger)
			})
		}

		return g.Wait()
	},
}

func identityFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.Uint64Flag{Name: "timestamp", Required: true, Usage: "unix timestamp the attribute was valid at"},
		&cli.StringFlag{Name: "attribute-type", Required: true, Usage: "e.g. pbdf.pbdf.email.email"},
		&cli.StringFlag{Name: "attribute-value", Usage: "e.g. w.geraedts@sarif.nl"},
	}
	return append(flags, extra...)
}

// identityFromFlags builds the Identity named by --timestamp,
// --attribute-type and --attribute-value, and validates its attribute
// lengths immediately so a malformed flag is rejected before any sealing,
// extraction, or network round-trip begins.
func identityFromFlags(c *cli.Context) (irmaseal.Identity, error) {
	timestamp := c.Uint64("timestamp")
	attrType := c.String("attribute-type")

	id := irmaseal.Identity{Timestamp: timestamp, AttributeType: attrType}
	if value := c.String("attribute-value"); value != "" {
		id = irmaseal.NewIdentity(timestamp, attrType, value)
	}

	if err := id.Validate(); err != nil {
		return irmaseal.Identity{}, err
	}
	return id, nil
}

func sealFile(id irmaseal.Identity, pk irmaseal.PublicKey, inPath, outPath string, logger logging.Logger) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	sealer, err := irmaseal.NewSealer(id, pk, cryptorand.Reader, out, logger)
	if err != nil {
		return err
	}
	if err := sealer.Seal(in); err != nil {
		return err
	}
	return sealer.Finish()
}

func unsealFile(usk irmaseal.UserSecretKey, inPath, outPath string, logger logging.Logger) (bool, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return false, err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return false, err
	}
	defer out.Close()

	_, opener, err := irmaseal.NewOpener(in, logger)
	if err != nil {
		return false, err
	}
	return opener.Unseal(usk, out)
}

