package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/diff"
	"github.com/toninf/sqalchemy-deepdiff/render"
)

func runDiff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	b, err := loadSnapshot(args[1])
	if err != nil {
		return err
	}
	if cfg.Text {
		fmt.Fprint(cc.Out, render.TextDiff(a, b))
		return nil
	}
	cs := diff.Diff(a, b, diff.IgnoreOrder(cfg.IgnoreOrder))
	if cfg.Filter != "" {
		cs, err = diff.Filter(cs, cfg.Filter)
		if err != nil {
			return err
		}
	}
	if err := writeChangeSet(cfg.MainConfig, cc, cs); err != nil {
		return err
	}
	if !cs.Empty() {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func writeChangeSet(cfg *MainConfig, cc *cli.Context, cs diff.ChangeSet) error {
	if cfg.Pretty {
		r := render.New(cc.Out)
		if cfg.Color {
			r = render.NewColor(true)
		}
		return r.ChangeSet(cc.Out, cs)
	}
	d, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cc.Out, "%s\n", d)
	return err
}

func loadSnapshot(path string) (*canon.Value, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := canon.Decode(d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return v, nil
}
