package main

import "time"

// Buzzer pitches in Hz, equal temperament.
const (
	noteC4  = 262
	noteD4  = 294
	noteE4  = 330
	noteF4  = 349
	noteFS4 = 370
	noteG4  = 392
	noteA4  = 440
	noteAS4 = 466
	noteB4  = 494
	noteC5  = 523
	noteD5  = 587
)

// note is one melody step: a buzzer frequency and a duration code. Codes
// follow sheet-music subdivisions (4 quarter, 8 eighth, 16 sixteenth);
// a negative code is the dotted form, half again as long. Frequency 0 is
// a rest.
type note struct {
	freq int
	code int
}

// wholeNote is the time budget a duration code divides.
const wholeNote = 1200 * time.Millisecond

// duration converts the note's code into playing time.
func (n note) duration() time.Duration {
	code := n.code
	dotted := code < 0
	if dotted {
		code = -code
	}
	d := wholeNote / time.Duration(code)
	if dotted {
		d += d / 2
	}
	return d
}

// notePause is the silent gap after a note, 30% of its duration. The gap
// separates repeated pitches that would otherwise slur together.
func notePause(d time.Duration) time.Duration {
	return d * 30 / 100
}

// jingleBells is the chorus, both endings.
var jingleBells = []note{
	{noteE4, 8}, {noteE4, 8}, {noteE4, 4},
	{noteE4, 8}, {noteE4, 8}, {noteE4, 4},
	{noteE4, 8}, {noteG4, 8}, {noteC4, 8}, {noteD4, 8}, {noteE4, 2},
	{noteF4, 8}, {noteF4, 8}, {noteF4, 8}, {noteF4, 8},
	{noteF4, 8}, {noteE4, 8}, {noteE4, 8}, {noteE4, 16}, {noteE4, 16},
	{noteE4, 8}, {noteD4, 8}, {noteD4, 8}, {noteE4, 8},
	{noteD4, 4}, {noteG4, 4},
	{noteE4, 8}, {noteE4, 8}, {noteE4, 4},
	{noteE4, 8}, {noteE4, 8}, {noteE4, 4},
	{noteE4, 8}, {noteG4, 8}, {noteC4, 8}, {noteD4, 8}, {noteE4, 2},
	{noteF4, 8}, {noteF4, 8}, {noteF4, 8}, {noteF4, 8},
	{noteF4, 8}, {noteE4, 8}, {noteE4, 8}, {noteE4, 16}, {noteE4, 16},
	{noteG4, 8}, {noteG4, 8}, {noteF4, 8}, {noteD4, 8},
	{noteC4, 2},
}

// weWishYou is one verse of We Wish You a Merry Christmas.
var weWishYou = []note{
	{noteD4, 4},
	{noteG4, 4}, {noteG4, 8}, {noteA4, 8}, {noteG4, 8}, {noteFS4, 8},
	{noteE4, 4}, {noteE4, 4}, {noteE4, 4},
	{noteA4, 4}, {noteA4, 8}, {noteB4, 8}, {noteA4, 8}, {noteG4, 8},
	{noteFS4, 4}, {noteD4, 4}, {noteD4, 4},
	{noteB4, 4}, {noteB4, 8}, {noteC5, 8}, {noteB4, 8}, {noteA4, 8},
	{noteG4, 4}, {noteE4, 4}, {noteD4, 8}, {noteD4, 8},
	{noteE4, 4}, {noteA4, 4}, {noteFS4, 4},
	{noteG4, 2},
}

// oChristmasTree is one verse of O Christmas Tree.
var oChristmasTree = []note{
	{noteC4, 4},
	{noteF4, 8}, {noteF4, 8}, {noteF4, -4}, {noteG4, 4},
	{noteA4, 8}, {noteA4, 8}, {noteA4, -4}, {noteA4, 8},
	{noteG4, 8}, {noteA4, 8}, {noteAS4, 4}, {noteE4, 4},
	{noteG4, 4}, {noteF4, 4},
	{noteC5, 8}, {noteC5, 8}, {noteA4, 8}, {noteD5, -4},
	{noteC5, 8}, {noteC5, 8}, {noteAS4, -4}, {noteAS4, 8},
	{noteAS4, 8}, {noteG4, 8}, {noteC5, -4}, {noteAS4, 8},
	{noteAS4, 8}, {noteA4, -4}, {noteA4, 8},
	{noteF4, 2},
}

var songTables = map[Song][]note{
	SongJingleBells:    jingleBells,
	SongWeWishYou:      weWishYou,
	SongOChristmasTree: oChristmasTree,
}

// songTable returns the note table for a song, nil for SongNone.
func songTable(s Song) []note {
	return songTables[s]
}

// songAccents is the sparkle overlay color per song.
var songAccents = map[Song]Color{
	SongJingleBells:    {R: 255},
	SongWeWishYou:      {G: 255},
	SongOChristmasTree: {R: 255, G: 170},
}
