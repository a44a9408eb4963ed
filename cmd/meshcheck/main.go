// meshcheck - watertightness checker for triangle meshes.
//
// Every triangle casts a probe ray through the solid; an odd number of
// boundary crossings means the surface has a hole, a crack or a flipped face.
//
//	meshcheck check model.stl       Verify a mesh is closed
//	meshcheck info model.glb        Print model statistics
//	meshcheck sample sphere out.stl Write a closed reference solid
package main

import (
	"context"
	"os"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		log.LogVf("exit: %v", err)
		os.Exit(1)
	}
}
