package app

import "fundwise/internal/api"

// Screen identifies the screen currently owning the display.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenMain
)

// User-facing fallback messages. Transport failures always map to the
// screen's generic message; domain errors carry the service's own text.
const (
	msgEmailTaken           = "Email already registered. Please log in."
	msgLoginFailed          = "Login failed."
	msgRegisterFailed       = "Registration failed."
	msgFetchRecommendations = "Failed to fetch recommendations."
	msgFetchRecommendation  = "Failed to fetch recommendation."
)

// Messages for tea updates. Every asynchronous resolution carries two
// generations: the incarnation of the form that issued the request
// (gen / mount, allocated by the parent and monotonic across remounts)
// and the per-submit seq within that incarnation. A screen discards any
// resolution whose pair does not match its own, so neither a superseded
// submit nor a submit from a discarded incarnation can land.
type (
	// navigateMsg switches the active screen.
	navigateMsg struct {
		to Screen
	}

	// authDoneMsg resolves a login or register submit. Exactly one of
	// token and errText is set.
	authDoneMsg struct {
		mode    authMode
		gen     int
		seq     int
		token   string
		errText string
	}

	// schemesLoadedMsg resolves the catalog fetch of one mount of the
	// existing-investor screen.
	schemesLoadedMsg struct {
		mount   int
		entries []api.SchemeEntry
		err     error
	}

	// fundsDoneMsg resolves a new-investor submit.
	fundsDoneMsg struct {
		gen     int
		seq     int
		funds   []api.Fund
		errText string
	}

	// comparisonDoneMsg resolves an existing-investor submit.
	comparisonDoneMsg struct {
		mount   int
		seq     int
		result  *api.Comparison
		errText string
	}
)

// genCounter allocates incarnation generations. One counter, owned by
// the root model, feeds every screen so no two incarnations anywhere in
// the program ever share a generation, including across logout.
type genCounter struct {
	n int
}

func (g *genCounter) next() int {
	g.n++
	return g.n
}
