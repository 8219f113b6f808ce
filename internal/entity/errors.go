package entity

import "errors"

// Domain errors for the drilling engine and its collaborators.
var (
	ErrEmptyPool          = errors.New("pool has no items")
	ErrInsufficientPool   = errors.New("pool has fewer items than the choice count")
	ErrInvalidChoiceCount = errors.New("choice count must be at least 1")
	ErrUnknownRound       = errors.New("round not found")
	ErrUnknownItem        = errors.New("item not found")
	ErrRoundAnswered      = errors.New("round already answered")
	ErrInvalidChoice      = errors.New("chosen item was not offered in the round")

	ErrWordSetNotFound    = errors.New("word set not found")
	ErrInvalidWordSetID   = errors.New("invalid word set ID")
	ErrInvalidWordSetName = errors.New("invalid word set name")
	ErrInvalidWordPair    = errors.New("word pair requires both word and meaning")
	ErrInvalidListQuery   = errors.New("invalid list query")

	ErrSessionNotFound = errors.New("practice session not found")
)
