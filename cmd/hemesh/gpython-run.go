package main

import (
	"time"

	"github.com/fine-structures/halfedge/pymesh"
	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	_ "github.com/go-python/gpython/stdlib"
)

// runPython runs a python file in a fresh context with _pymesh available.
func runPython(pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer closeContext(ctx)

	startTime := time.Now()
	klog.V(1).Infof("executing '%s'", pathname)

	_, err := py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
	if err != nil {
		py.TracebackDump(err)
		return errors.Wrap(err, pathname)
	}

	klog.V(1).Infof("'%s' complete in %v", pathname, time.Since(startTime))
	return nil
}

// runREPL prepares the REPL's module with startupPathname, or pymesh.ReplStartup if none is given, then hands over to the prompt.
func runREPL(startupPathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer closeContext(ctx)

	replCtx := repl.New(ctx)

	var err error
	if startupPathname == "" {
		_, err = pymesh.RunSrc(ctx, pymesh.ReplStartup, "<startup>", replCtx.Module)
	} else {
		_, err = py.RunFile(ctx, startupPathname, py.CompileOpts{}, replCtx.Module)
	}
	if err != nil {
		py.TracebackDump(err)
		return errors.Wrap(err, "REPL startup")
	}

	cli.RunREPL(replCtx)
	return nil
}

// closeContext closes ctx and waits until every module, _pymesh included, has released its resources.
func closeContext(ctx py.Context) {
	ctx.Close()
	<-ctx.Done()
}
