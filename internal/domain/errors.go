package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrItemNotFound      = errors.New("item not found")
	ErrLanguageNotFound  = errors.New("language not found")
	ErrSeasonNotFound    = errors.New("no active battlepass season")
	ErrTierNotFound      = errors.New("battlepass level not found")
	ErrRoomNotFound      = errors.New("room not found")

	ErrConnectionNotFound = errors.New("connection not found")

	ErrNotEnoughXP    = errors.New("not enough XP")
	ErrAlreadyClaimed = errors.New("level already claimed")
	ErrNotEnoughCoins = errors.New("not enough coins")
	ErrNoHearts       = errors.New("no hearts left")
	ErrMaxHearts      = errors.New("hearts already full")
	ErrItemNotOwned   = errors.New("item not in inventory")

	// ErrValidation wraps business-rule input rejections surfaced as 400.
	ErrValidation = errors.New("invalid input")

	// ErrVersionConflict signals that a conditional update lost the race;
	// callers re-read and retry a bounded number of times.
	ErrVersionConflict = errors.New("record changed since read")
)
