package brackets

import "fmt"

// Round enumerates the six rounds of a 64-team bracket, earliest first.
type Round int

const (
	RoundOf64 Round = iota + 1
	RoundOf32
	Sweet16
	Elite8
	FinalFour
	Championship
)

// Rounds lists every round in play order.
var Rounds = []Round{RoundOf64, RoundOf32, Sweet16, Elite8, FinalFour, Championship}

var roundCodes = map[Round]string{
	RoundOf64:    "r64",
	RoundOf32:    "r32",
	Sweet16:      "s16",
	Elite8:       "e8",
	FinalFour:    "f4",
	Championship: "championship",
}

var roundNames = map[Round]string{
	RoundOf64:    "Round of 64",
	RoundOf32:    "Round of 32",
	Sweet16:      "Sweet 16",
	Elite8:       "Elite 8",
	FinalFour:    "Final Four",
	Championship: "Championship",
}

// Code is the short form used inside game identifiers.
func (r Round) Code() string {
	if c, ok := roundCodes[r]; ok {
		return c
	}
	return fmt.Sprintf("round%d", int(r))
}

func (r Round) String() string {
	if n, ok := roundNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Round(%d)", int(r))
}

func (r Round) Valid() bool {
	return r >= RoundOf64 && r <= Championship
}

// ParseRound accepts a round code ("r64", "s16", ...).
func ParseRound(code string) (Round, error) {
	for r, c := range roundCodes {
		if c == code {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown round code %q", code)
}

func (r Round) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid round %d", int(r))
	}
	return []byte(r.Code()), nil
}

func (r *Round) UnmarshalText(text []byte) error {
	parsed, err := ParseRound(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
