package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/flagx"
)

func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			if *interval < 1 {
				err = fmt.Errorf("online check interval must be positive, got %d", *interval)
			}
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		case "t":
			if *timeout < 1 {
				err = fmt.Errorf("request timeout must be positive, got %d", *timeout)
			}
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return err
}
