package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cmpRune(a, b rune) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func keys(s string) []rune {
	return []rune(s)
}

func TestAddAndLookup(t *testing.T) {
	tr := New[rune, int](cmpRune)

	require.NoError(t, tr.Add(keys("foo"), 42))
	require.NoError(t, tr.Add(keys("foobar"), 7))

	node := tr
	for _, k := range keys("foo") {
		i, found := node.search(k)
		require.True(t, found)
		node = node.Children[i].Node
	}
	require.NotNil(t, node.Data)
	require.Equal(t, 42, *node.Data)
}

func TestAddDuplicateFails(t *testing.T) {
	tr := New[rune, int](cmpRune)

	require.NoError(t, tr.Add(keys("foo"), 1))

	err := tr.Add(keys("foo"), 2)
	require.Error(t, err)

	var dup *DuplicatePathError[int]
	require.ErrorAs(t, err, &dup)
	require.Equal(t, 2, dup.Value)

	// the trie is unchanged: the original value still wins.
	i, found := tr.search('f')
	require.True(t, found)
	node := tr.Children[i].Node
	i, found = node.search('o')
	require.True(t, found)
	node = node.Children[i].Node
	i, found = node.search('o')
	require.True(t, found)
	node = node.Children[i].Node
	require.Equal(t, 1, *node.Data)
}

func TestChildrenStaySorted(t *testing.T) {
	tr := New[rune, int](cmpRune)

	for i, s := range []string{"c", "a", "b"} {
		require.NoError(t, tr.Add(keys(s), i))
	}

	require.Len(t, tr.Children, 3)
	require.Equal(t, 'a', tr.Children[0].Key)
	require.Equal(t, 'b', tr.Children[1].Key)
	require.Equal(t, 'c', tr.Children[2].Key)
}
