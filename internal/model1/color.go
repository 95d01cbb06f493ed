package model1

import "github.com/gdamore/tcell/v2"

var (
	// LoadingColor table loading color
	LoadingColor tcell.Color = tcell.ColorDarkCyan

	// ErrColor table error color
	ErrColor tcell.Color = tcell.ColorRed

	// StdColor row default color
	StdColor tcell.Color = tcell.ColorWhite

	// EmptyColor empty placeholder color
	EmptyColor tcell.Color = tcell.ColorGray

	// CompletedColor all rows loaded color
	CompletedColor tcell.Color = tcell.ColorGreen

	// SortColor sorted column header color
	SortColor tcell.Color = tcell.ColorAqua
)

// StateColor returns the color used to signal a load state.
func StateColor(s State) tcell.Color {
	switch s {
	case StateLoading:
		return LoadingColor
	case StateError:
		return ErrColor
	case StateEmpty:
		return EmptyColor
	case StateExhausted:
		return CompletedColor
	default:
		return StdColor
	}
}
