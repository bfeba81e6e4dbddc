package core

// Color identifies the role of a screen cell. The presenter maps each role
// to a terminal color, so the simulation never deals with ANSI codes.
type Color uint8

// Cell roles used by the stage viewport and HUD.
const (
	ColorDefault Color = iota
	ColorPlatform
	ColorCollapsing
	ColorWarning
	ColorMoving
	ColorPlayer
	ColorPlayerShielded
	ColorPlayerSudo
	ColorEnemy
	ColorShot
	ColorGem
	ColorCycle
	ColorItem
	ColorSpring
	ColorPort
	ColorCheckpoint
	ColorGoal
	ColorWind
	ColorWater
	ColorGravity
	ColorHUD
	ColorDim
)
