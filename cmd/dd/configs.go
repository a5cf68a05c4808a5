package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Pretty bool `cli:"name=p aliases=pretty desc='render change sets for humans'"`
	Color  bool `cli:"name=color desc='force colored output'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

type DiffConfig struct {
	*MainConfig
	IgnoreOrder bool   `cli:"name=ignore-order desc='compare sequences as multisets'"`
	Text        bool   `cli:"name=text desc='line-oriented textual diff instead of a change set'"`
	Filter      string `cli:"name=filter desc='keep only operations matching the expression'"`

	Diff *cli.Command
}

type ApplyConfig struct {
	*MainConfig

	Apply *cli.Command
}

type ShowConfig struct {
	*MainConfig
	Path string `cli:"name=path desc='print only the value at this path'"`

	Show *cli.Command
}

type LogConfig struct {
	*MainConfig
	DB string `cli:"name=db desc='change log database directory'"`

	Log *cli.Command
}

func ddMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}
