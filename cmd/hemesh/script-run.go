package main

import (
	"io"
	"os"
	"time"

	"github.com/fine-structures/halfedge/libmesh"
	mesh_script "github.com/fine-structures/halfedge/libmesh/mesh-script"
	"github.com/fine-structures/halfedge/libmesh/query"
	"github.com/plan-systems/klog"
)

// runMeshScript runs a .mesh file against a fresh mesh, sending "print" output to out.
func runMeshScript(out io.Writer, pathname string, defragAfter bool) error {
	src, err := os.ReadFile(pathname)
	if err != nil {
		return err
	}

	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	startTime := time.Now()
	err = mesh_script.Run(m, string(src), &mesh_script.RunOpts{
		DefragAfter: defragAfter,
		Print:       out,
	})
	if err != nil {
		return err
	}

	klog.V(1).Infof("%s: %v in %v", pathname, m, time.Since(startTime))
	for _, problem := range query.Problems(m, 5) {
		klog.Warningf("%s: %v", pathname, problem)
	}
	return nil
}
