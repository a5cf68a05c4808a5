package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "dd").
		WithSynopsis("dd [opts] command [opts]").
		WithDescription("dd computes and replays reversible diffs of record snapshots.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ddMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			ApplyCommand(cfg),
			RevertCommand(cfg),
			ShowCommand(cfg),
			LogCommand(cfg))
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithSynopsis("diff [-ignore-order] [-text] [-filter expr] <before> <after>").
		WithDescription("compute the change set taking <before> to <after>").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runDiff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func ApplyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("apply").
		WithAliases("a").
		WithSynopsis("apply <changeset.json> <snapshot>").
		WithDescription("replay a change set forward against a snapshot").
		WithRun(func(cc *cli.Context, args []string) error {
			return runApply(cfg, cc, args, false)
		})
	cfg.Apply = cmd
	return cmd
}

func RevertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("revert").
		WithAliases("r").
		WithSynopsis("revert <changeset.json> <snapshot>").
		WithDescription("apply a change set's inverse, rolling a snapshot back").
		WithRun(func(cc *cli.Context, args []string) error {
			return runApply(cfg, cc, args, true)
		})
	cfg.Apply = cmd
	return cmd
}

func ShowCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShowConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("show").
		WithAliases("s").
		WithSynopsis("show [-path $.a[0].b] <snapshot>").
		WithDescription("print a snapshot's canonical form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runShow(cfg, cc, args)
		})
	cfg.Show = cmd
	return cmd
}

func LogCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LogConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("log").
		WithAliases("l").
		WithSynopsis("log -db <dir> save|list|rollback ...").
		WithDescription("record and replay change log entries").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runLog(cfg, cc, args)
		})
	cfg.Log = cmd
	return cmd
}
