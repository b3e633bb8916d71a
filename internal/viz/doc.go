// Package viz renders an animation on the terminal.
//
// [Player] is a bubbletea model that advances one frame per
// [render.Animation.Interval], drawing the rod on a braille [Canvas] next to
// an [AngleChart] with the current sample marked. Press q to quit.
package viz
