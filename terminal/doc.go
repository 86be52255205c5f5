// Package terminal plays the Robots game in a text terminal with tcell.
//
// The screen keeps the classic layout: the title on the first row, the
// win/lose line below it, the level and score on row 3, and the arena framed
// by '-' rows starting at row 5.
//
// Keys:
//
//	u i o     up-left  up    up-right
//	j k l     left     jump  right
//	m , .     down-left down down-right
//
// Space stays, f toggles freeze, q/Esc/Ctrl-C quits. Arrow keys move too.
package terminal
