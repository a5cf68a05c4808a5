package main

import (
	"context"
	"fmt"
	"time"

	"github.com/scott-cotton/cli"

	"github.com/toninf/sqalchemy-deepdiff/changelog"
	"github.com/toninf/sqalchemy-deepdiff/diff"
)

func runLog(cfg *LogConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Log.Parse(cc, args)
	if err != nil {
		cfg.Log.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.DB == "" {
		return fmt.Errorf("%w: log requires -db", cli.ErrUsage)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: log requires save|list|rollback", cli.ErrUsage)
	}
	st, err := changelog.OpenPebble(cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	switch args[0] {
	case "save":
		return logSave(cfg, cc, st, args[1:])
	case "list":
		return logList(cfg, cc, st, args[1:])
	case "rollback":
		return logRollback(cfg, cc, st, args[1:])
	default:
		return fmt.Errorf("%w: unknown log action %q", cli.ErrUsage, args[0])
	}
}

func logSave(cfg *LogConfig, cc *cli.Context, st *changelog.PebbleStore, args []string) error {
	ctx := context.Background()
	if len(args) != 3 {
		return fmt.Errorf("%w: log save <entity> <before> <after>", cli.ErrUsage)
	}
	a, err := loadSnapshot(args[1])
	if err != nil {
		return err
	}
	b, err := loadSnapshot(args[2])
	if err != nil {
		return err
	}
	cs := diff.Diff(a, b)
	if cs.Empty() {
		fmt.Fprintln(cc.Out, "no changes")
		return nil
	}
	id, err := st.Save(ctx, args[0], time.Now(), cs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "%s %d ops\n", id, len(cs))
	return nil
}

func logList(cfg *LogConfig, cc *cli.Context, st *changelog.PebbleStore, args []string) error {
	ctx := context.Background()
	if len(args) != 1 {
		return fmt.Errorf("%w: log list <entity>", cli.ErrUsage)
	}
	entries, err := st.LoadSince(ctx, args[0], time.Time{})
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(cc.Out, "%s %s %d ops\n",
			e.Timestamp.Format(time.RFC3339Nano), e.ID, len(e.ChangeSet))
	}
	return nil
}

func logRollback(cfg *LogConfig, cc *cli.Context, st *changelog.PebbleStore, args []string) error {
	ctx := context.Background()
	if len(args) != 3 {
		return fmt.Errorf("%w: log rollback <entity> <to-rfc3339> <current>", cli.ErrUsage)
	}
	to, err := time.Parse(time.RFC3339, args[1])
	if err != nil {
		return fmt.Errorf("%w: bad rollback time: %w", cli.ErrUsage, err)
	}
	cur, err := loadSnapshot(args[2])
	if err != nil {
		return err
	}
	res, err := changelog.Rollback(ctx, st, args[0], to, cur)
	if err != nil {
		return err
	}
	return writeValue(cc, res)
}
