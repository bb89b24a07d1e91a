package engine

import "errors"

var (
	// ErrBadLetters means a board was not 25 letters A-Z.
	ErrBadLetters = errors.New("board must be 25 letters A-Z")

	// ErrNotUpperCase means a constraint string was not upper case.
	ErrNotUpperCase = errors.New("constraint letters must be upper case")

	// ErrPlayNotInGroup means a safety check was asked about a word outside its group.
	ErrPlayNotInGroup = errors.New("play not found in group")

	// ErrNotPlayable means a word is unknown, already played or a prefix of a played word.
	ErrNotPlayable = errors.New("word cannot be played")

	// ErrBadPlacement means the chosen cells do not spell the word.
	ErrBadPlacement = errors.New("cells do not spell the word")
)
