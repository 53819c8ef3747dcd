package bitable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPaths(t *testing.T) {
	p := BuildPaths("/tmp/mytable")

	require.Equal(t, "/tmp/mytable", p.Leaf)
	require.Equal(t, "/tmp/mytable.lvs", p.LargeValue)
	require.Equal(t, "/tmp/mytable.000", p.Branch[0])
	require.Equal(t, "/tmp/mytable.031", p.Branch[31])
	require.Len(t, p.Branch, MaxBranchLevels)
}
