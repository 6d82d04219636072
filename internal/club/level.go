package club

const (
	LevelExplorer    = "Explorer"
	LevelLocalFriend = "Local Friend"
	LevelAmbassador  = "Ambassador"
	LevelLegend      = "Legend"
)

// LevelForPoints derives the membership level from lifetime points.
// Alternate tier naming in client views is theming only; these thresholds
// are the single source of truth.
func LevelForPoints(totalPoints int) string {
	switch {
	case totalPoints >= 2000:
		return LevelLegend
	case totalPoints >= 1000:
		return LevelAmbassador
	case totalPoints >= 500:
		return LevelLocalFriend
	default:
		return LevelExplorer
	}
}
