package report

// MotivationalMessage picks a short encouragement line for a completion
// percent, one of a few rotating lines per band.
func MotivationalMessage(percent int) string {
	var lines []string
	switch {
	case percent >= 100:
		lines = []string{
			"Summit reached — a perfect week.",
			"Everything done. Keep that rhythm.",
		}
	case percent >= 80:
		lines = []string{
			"Almost at the top, one last push.",
			"Strong week — the summit is in sight.",
		}
	case percent >= 50:
		lines = []string{
			"Past the halfway camp, keep climbing.",
			"Solid progress, steadier than it feels.",
		}
	case percent >= 30:
		lines = []string{
			"A slow ascent still gains altitude.",
			"Every step on a hard route counts.",
		}
	default:
		lines = []string{
			"Rough week — tomorrow is another climb.",
			"Base camp again, but the mountain waits.",
		}
	}
	return lines[percent%len(lines)]
}
