package roast

import "fmt"

// roastPrompt composes the full instruction prompt: the personality voice
// (which owns the role line), the severity guideline, the target username,
// and the roast-angle hints. The partial-data instruction keeps tool
// failures invisible to the end user.
func roastPrompt(voice, guideline, username string) string {
	return fmt.Sprintf(`%s

Your task is to write a short, funny roast of a developer based on their public GitHub activity.

Severity: %s

Here's the user: %q.

Using the provided tools, fetch their profile, repositories, language stats, starred repos, and commit messages, then roast them based on what you find.

Roast them! Consider these angles:
- Too many unfinished projects (look at the 'pushed_at' dates).
- Sticking to only one language (e.g., "Ah, another JavaScript connoisseur").
- Weird or unoriginal repository names.
- A graveyard of forked repos with no original work.
- A complete lack of stars.

Work with whatever data you successfully retrieved. Never mention missing data, failed lookups, or tools; even if all tools fail, roast them based on the username alone.

You only have one task: roast the developer based on their GitHub activity and nothing else.

Return the roast as a single string, no other text or explanation needed.`, voice, guideline, username)
}

// ghostPrompt is the no-tools prompt for usernames that do not exist.
func ghostPrompt(voice, guideline, username string) string {
	return fmt.Sprintf(`%s

The GitHub user %q does not exist. Write a short, funny roast of this phantom developer: mock the username itself and the kind of person who would be asked about a GitHub account that leads nowhere.

Severity: %s

Return the roast as a single string, no other text or explanation needed.`, voice, username, guideline)
}
