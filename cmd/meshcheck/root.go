package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taigrr/meshcheck/pkg/samples"
)

func newRootCmd() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "meshcheck",
		Short: "Check triangle meshes for watertightness",
		Long: `meshcheck - watertightness checker for triangle meshes

Reads STL (binary or ASCII), OBJ and glTF/GLB models and verifies that the
surface is closed and consistently oriented. Each triangle casts a ray from
just outside its face through the solid; an odd number of crossings marks a
hole, a crack or a flipped face.

Every flag can also be set through a MESHCHECK_* environment variable
(e.g. MESHCHECK_WORKERS=4) or a --config file.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.String(keyConfig, "", "Config file (YAML, TOML or JSON)")
	pf.String(keyLogLevel, "info", "Log level (debug, verbose, info, warning, error)")

	cmd.AddCommand(newCheckCmd(v), newInfoCmd(v), newSampleCmd(v))
	return cmd
}

func newCheckCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <model.stl|model.obj|model.glb>",
		Short: "Verify that a mesh is closed",
		Long: `Probe every triangle of the model and report whether the mesh is watertight.

On failure the first offending triangle is printed with the points where its
probe ray crossed the mesh, and the command exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), args[0], s)
		},
	}
	f := cmd.Flags()
	f.Int(keyWorkers, 0, "Triangles probed concurrently (0 = GOMAXPROCS)")
	f.Bool(keyAll, false, "Probe every triangle instead of stopping at the first offender")
	f.Bool(keyStrictNormals, false, "Fail when declared STL normals disagree with the winding")
	f.Bool(keyTrustNormals, false, "Use declared STL normals instead of recomputing them")
	return cmd
}

func newInfoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.stl|model.obj|model.glb>",
		Short: "Display model information",
		Long:  "Display information about a model file including format, triangle count, vertex count, bounding box and edge statistics.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadSettings(v, cmd); err != nil {
				return err
			}
			return runInfo(cmd.OutOrStdout(), args[0])
		},
	}
}

func newSampleCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "sample <shape> <out.stl>",
		Short:     "Write a closed reference solid as binary STL",
		Long:      "Generate a closed reference solid and write it as binary STL. Shapes other than cube are tessellated with marching cubes at --cells resolution.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: samples.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v, cmd)
			if err != nil {
				return err
			}
			return runSample(cmd.OutOrStdout(), args[0], args[1], s.Cells)
		},
	}
	cmd.Flags().Int(keyCells, samples.DefaultCells, "Marching cubes cells along the longest side")
	return cmd
}
