package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/toninf/sqalchemy-deepdiff/canon"
	"github.com/toninf/sqalchemy-deepdiff/delta"
	"github.com/toninf/sqalchemy-deepdiff/diff"
)

func runApply(cfg *ApplyConfig, cc *cli.Context, args []string, inverse bool) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		cfg.Apply.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: requires 2 args, a change set and a snapshot", cli.ErrUsage)
	}
	cs, err := loadChangeSet(args[0])
	if err != nil {
		return err
	}
	doc, err := loadSnapshot(args[1])
	if err != nil {
		return err
	}
	d := delta.From(cs)
	var res *canon.Value
	if inverse {
		res, err = d.ApplyInverse(doc)
	} else {
		res, err = d.Apply(doc)
	}
	if err != nil {
		return err
	}
	return writeValue(cc, res)
}

func loadChangeSet(path string) (diff.ChangeSet, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cs diff.ChangeSet
	if err := json.Unmarshal(d, &cs); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return cs, nil
}

func writeValue(cc *cli.Context, v *canon.Value) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cc.Out, "%s\n", d)
	return err
}
