package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultHighlights(t *testing.T) {
	cats := &CatLabel{Name: "Cat", Instances: []CatInstance{{}}}
	s := NewSession(10, "cat.jpg", []byte("img"), nil, cats)
	require.Equal(t, HighlightState{"Cat-1": false}, s.Highlights)
	require.True(t, s.SameUpload("cat.jpg", []byte("img")))
	require.False(t, s.SameUpload("cat.jpg", []byte("other")))
	require.False(t, s.SameUpload("dog.jpg", []byte("img")))
}

func TestSessionToggle(t *testing.T) {
	cats := &CatLabel{Name: "Cat", Instances: []CatInstance{{}, {}}}
	s := NewSession(10, "cat.jpg", []byte("img"), nil, cats)

	v, err := s.Toggle("Cat-2")
	require.NoError(t, err)
	require.True(t, v)
	require.False(t, s.Highlights["Cat-1"])

	v, err = s.Toggle("Cat-2")
	require.NoError(t, err)
	require.False(t, v)

	_, err = s.Toggle("Cat-9")
	require.ErrorIs(t, err, ErrUnknownInstance)
}
