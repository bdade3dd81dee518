package bars

// Fixed replies.
const (
	WelcomeText       = "Welcome to BarBot. Find any bars nearby"
	LocationButton    = "Bars near my location"
	HelpText          = "Click button to find bars near your location. A map with all bars near your location is shown. Click in the inline buttons to get more information about the bar"
	SelectPrompt      = "Select one option to get more information of the bar."
	ReselectPrompt    = "Select a bar"
	NoResultsText     = "No bars found near your location."
	CommandStart      = "/start"
	CommandHelp       = "/help"
	SelectionPrefix   = "bar_"
	DefaultCategory   = "bars"
	DefaultMaxResults = 6
	// MaxResults is the most venues a search may return: map marker labels
	// are a single character, so numbering stops at 9.
	MaxResults = 9
)
