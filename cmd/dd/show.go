package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/render"
)

func runShow(cfg *ShowConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		cfg.Show.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: show requires one snapshot file", cli.ErrUsage)
	}
	v, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		p, err := canon.ParsePath(cfg.Path)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		sub, ok := p.Lookup(v)
		if !ok {
			return fmt.Errorf("no value at %s in %s", cfg.Path, args[0])
		}
		v = sub
	}
	if cfg.Pretty {
		fmt.Fprint(cc.Out, render.Pretty(v))
		return nil
	}
	return writeValue(cc, v)
}
