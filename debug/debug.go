package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Diff  bool
	Apply bool
	Log   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("DD_DEBUG_DIFF")
	d.Apply = boolEnv("DD_DEBUG_APPLY")
	d.Log = boolEnv("DD_DEBUG_LOG")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func Apply() bool {
	return d.Apply
}
func Log() bool {
	return d.Log
}
