// Package suspects ships the static suspect files for the investigation.
// The data never changes during a session; it only feeds the accusation
// resolver and whatever front end lists the suspects.
package suspects

import "github.com/vakkila/spiritlens/internal/models"

var catalog = []models.Suspect{
	{
		ID:         "ren",
		Name:       "Ren Tachibana",
		Age:        29,
		Occupation: "Freelance web designer",
		Relation:   "Ex-boyfriend, broke up two years ago",
		Impression: "Mild-mannered and quiet, seemingly harmless. He kept in touch " +
			"with Mio 'as a friend' after the breakup, but it turned out he was " +
			"watching her social accounts from several burner profiles. He never " +
			"shows emotion, which makes it impossible to tell what he is holding in.",
		Alibi:        "No alibi from the morning before the incident until the body was found.",
		PortraitPath: "characters/ren.png",
	},
	{
		ID:         "nana",
		Name:       "Nana Hayakawa",
		Age:        24,
		Occupation: "Nail artist at a private salon",
		Relation:   "Childhood friend, close for over ten years",
		Impression: "Always cheerful, supposedly Mio's best friend and biggest " +
			"supporter. After Mio and I started dating, something cold crept in " +
			"behind the smile. The moment she said 'Mio belongs to me alone', the " +
			"line between friendship and obsession was gone.",
		Alibi: "Confirmed to have been at her boyfriend's place from an hour " +
			"before the incident until the body was found.",
		PortraitPath: "characters/nana.png",
	},
	{
		ID:         "kenji",
		Name:       "Kenji Asakura",
		Age:        52,
		Occupation: "Department head at a manufacturing firm",
		Relation:   "Mio's father",
		Impression: "From the first greeting his appraising stare never let up. He " +
			"plays the doting father, but he controlled everything from Mio's " +
			"friendships to her choice of employer. Knowing she kept a secret her " +
			"father 'must never learn' feels ominous now.",
		Alibi:        "His wife testifies he was at home from the previous evening until the body was found.",
		PortraitPath: "characters/kenji.png",
	},
	{
		ID:         "kyosuke",
		Name:       "Kyosuke Mishima",
		Age:        31,
		Occupation: "Sales manager at an IT startup",
		Relation:   "Mio's direct supervisor",
		Impression: "Competent and easy to talk to; at first he seemed like a good " +
			"boss. But the moment he learned about me he abruptly distanced " +
			"himself from Mio. She used to say he was the type to cut people loose " +
			"when they became inconvenient. Hard to tell how much calculation " +
			"hides behind that fresh smile.",
		Alibi: "Confirmed to have been drinking with coworkers from four hours " +
			"before the incident until morning.",
		PortraitPath: "characters/mishima.png",
	},
}

// All returns the suspect files in presentation order.
func All() []models.Suspect {
	out := make([]models.Suspect, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a suspect by its stable identifier.
func ByID(id string) (models.Suspect, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return models.Suspect{}, false
}
