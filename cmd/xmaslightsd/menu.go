package main

// Mode is the top-level output mode chosen in the category menu.
type Mode uint8

const (
	ModeOff Mode = iota
	ModeSolid
	ModePattern
	ModeMusic
)

var modeNames = [...]string{"off", "solid", "pattern", "music"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Pattern identifies one animation of the effects engine.
type Pattern uint8

const (
	PatternNone Pattern = iota
	PatternTwinkle
	PatternBreathe
	PatternComet
	PatternRainbow
	PatternRainbowWave
)

var patternNames = [...]string{"none", "twinkle", "breathe", "comet", "rainbow", "rainbow_wave"}

func (p Pattern) String() string {
	if int(p) < len(patternNames) {
		return patternNames[p]
	}
	return "unknown"
}

// Song identifies a melody table. SongNone means nothing is playing.
type Song uint8

const (
	SongNone Song = iota
	SongJingleBells
	SongWeWishYou
	SongOChristmasTree
)

var songNames = [...]string{"none", "jingle_bells", "we_wish_you", "o_christmas_tree"}

func (s Song) String() string {
	if int(s) < len(songNames) {
		return songNames[s]
	}
	return "unknown"
}

// MenuDepth is the navigation level: welcome page, category list, item list.
type MenuDepth uint8

const (
	depthWelcome MenuDepth = iota
	depthCategory
	depthItem
)

var depthNames = [...]string{"welcome", "category", "item"}

func (d MenuDepth) String() string {
	if int(d) < len(depthNames) {
		return depthNames[d]
	}
	return "unknown"
}

// ============================================================================
// Option tables
// ============================================================================
//
// All menu rendering and selection is table-driven: a (depth, mode) pair
// selects one of these lists, the scaled encoder position modulo the list
// length selects the entry. The last entry of every item list is Back.

var (
	categoryItems = []string{"Solid Color", "Pattern", "Music"}
	solidItems    = []string{"Red", "Green", "Blue", "Gold", "White", "Back"}
	patternItems  = []string{"Twinkle", "Breathe", "Comet", "Rainbow", "Rainbow Wave", "Back"}
	musicItems    = []string{"Jingle Bells", "We Wish You", "O Xmas Tree", "Back"}
)

// solidColors aligns with solidItems; the trailing Back entry has no color.
var solidColors = []Color{
	{R: 255},
	{G: 255},
	{B: 255},
	{R: 255, G: 170},
	{R: 255, G: 255, B: 255},
}

// categoryModes aligns with categoryItems.
var categoryModes = []Mode{ModeSolid, ModePattern, ModeMusic}

// patternByIndex aligns with patternItems minus the Back entry.
var patternByIndex = []Pattern{PatternTwinkle, PatternBreathe, PatternComet, PatternRainbow, PatternRainbowWave}

// songByIndex aligns with musicItems minus the Back entry.
var songByIndex = []Song{SongJingleBells, SongWeWishYou, SongOChristmasTree}

// optionItems returns the active option list for a menu position, nil on the
// welcome page.
func optionItems(depth MenuDepth, mode Mode) []string {
	switch depth {
	case depthCategory:
		return categoryItems
	case depthItem:
		switch mode {
		case ModeSolid:
			return solidItems
		case ModePattern:
			return patternItems
		case ModeMusic:
			return musicItems
		}
	}
	return nil
}

// optionCount returns the number of selectable entries for a menu position.
func optionCount(depth MenuDepth, mode Mode) int {
	return len(optionItems(depth, mode))
}

// wrapIndex maps a scaled encoder position onto a list index. The result is
// in [0, count) for any input, negatives included.
func wrapIndex(mapped, count int) int {
	if count <= 0 {
		return 0
	}
	i := mapped % count
	if i < 0 {
		i += count
	}
	return i
}

// isBack reports whether the selection is the Back entry of an item list.
func isBack(depth MenuDepth, mode Mode, index int) bool {
	items := optionItems(depth, mode)
	return depth == depthItem && len(items) > 0 && index == len(items)-1
}

// ============================================================================
// Screens
// ============================================================================

// Screen is one rendered menu page: a header plus the item list with the
// selection marked. Selected is -1 when nothing is highlighted.
type Screen struct {
	Header   string
	Items    []string
	Selected int
	Big      bool // welcome page renders at double text scale
}

// welcomeScreen renders as two double-scale lines.
var welcomeScreen = Screen{
	Header:   "Xmas",
	Items:    []string{"Lights"},
	Selected: -1,
	Big:      true,
}

var itemHeaders = map[Mode]string{
	ModeSolid:   "Color",
	ModePattern: "Pattern",
	ModeMusic:   "Music",
}

// buildScreen assembles the display page for a menu position from the
// option tables.
func buildScreen(depth MenuDepth, mode Mode, selected int) Screen {
	switch depth {
	case depthCategory:
		return Screen{Header: "Mode", Items: categoryItems, Selected: selected}
	case depthItem:
		return Screen{Header: itemHeaders[mode], Items: optionItems(depth, mode), Selected: selected}
	default:
		return welcomeScreen
	}
}
