package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/pycc/internal/ast"
)

func TestValueKindOfMapsEveryPrimitiveKind(t *testing.T) {
	require.Equal(t, KindI32, valueKindOf(ast.TypeInt))
	require.Equal(t, KindF64, valueKindOf(ast.TypeFloat))
	require.Equal(t, KindI1, valueKindOf(ast.TypeBool))
	require.Equal(t, KindPtr, valueKindOf(ast.TypeStr))
	require.Equal(t, KindPtr, valueKindOf(ast.TypeUnknown))
}

func TestPointerTagOfMapsContainerKinds(t *testing.T) {
	require.Equal(t, TagStr, pointerTagOf(ast.TypeStr))
	require.Equal(t, TagList, pointerTagOf(ast.TypeList))
	require.Equal(t, TagList, pointerTagOf(ast.TypeTuple))
	require.Equal(t, TagList, pointerTagOf(ast.TypeSet))
	require.Equal(t, TagDict, pointerTagOf(ast.TypeDict))
	require.Equal(t, TagUnknown, pointerTagOf(ast.TypeBytes))
}

func TestValueKindLLVMRendering(t *testing.T) {
	require.Equal(t, "i32", KindI32.llvm())
	require.Equal(t, "i1", KindI1.llvm())
	require.Equal(t, "double", KindF64.llvm())
	require.Equal(t, "ptr", KindPtr.llvm())
}
