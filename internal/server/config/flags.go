package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-k int      passages returned per query
//	-l string   log level
//	-i string   corpus snapshot URI
//	-dev        development mode
//
// The arguments are first filtered with flagx.FilterArgs so flags owned by
// other components (such as -c) do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-k", "-l", "-i", "-dev", "-keep-unrelated"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP address and port")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC address and port")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	ttl := fs.Int("t", int(cfg.AccessTokenTTL.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&cfg.TopK, "k", cfg.TopK, "passages per answer")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.CorpusURI, "i", cfg.CorpusURI, "corpus snapshot (path or s3://bucket/key)")
	fs.BoolVar(&cfg.DevMode, "dev", cfg.DevMode, "development mode")
	fs.BoolVar(&cfg.IndexKeepUnrelated, "keep-unrelated", cfg.IndexKeepUnrelated, "memory index returns passages with no similarity")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.AccessTokenTTL = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
