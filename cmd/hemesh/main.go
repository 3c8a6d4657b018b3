package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plan-systems/klog"
)

var (
	defragAfter = flag.Bool("defrag", false, "compact a .mesh script's mesh once its last statement has run")
	startup     = flag.String("startup", "", "python file run in the REPL's module before the prompt (default: bind m to a new Mesh)")
	logLevel    = flag.Int("log-v", 2, "klog verbosity")
)

// usage: hemesh [flags] [file.mesh | file.py]
//
// With no file, a gpython REPL with _pymesh imported is started.
func main() {
	flag.Parse()
	initLogging(*logLevel)

	err := run(flag.Arg(0))
	if err != nil {
		klog.Errorf("%v", err)
	}
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func initLogging(verbosity int) {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", fmt.Sprint(verbosity))
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})
}

// run picks how to run pathname from its extension.
func run(pathname string) error {
	switch {
	case pathname == "":
		return runREPL(*startup)
	case filepath.Ext(pathname) == ".mesh":
		return runMeshScript(os.Stdout, pathname, *defragAfter)
	default:
		return runPython(pathname)
	}
}
