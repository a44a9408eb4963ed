package models

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions with no loader.
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrTruncated is returned when a binary file ends before its declared
	// contents.
	ErrTruncated = errors.New("truncated model data")
	// ErrNonTriangleFace is returned for polygons with more than three
	// vertices; they are not triangulated.
	ErrNonTriangleFace = errors.New("face is not a triangle")
	// ErrNodeCycle is returned when a glTF node is reached more than once
	// while walking the scene hierarchy.
	ErrNodeCycle = errors.New("node hierarchy is not a tree")
)
