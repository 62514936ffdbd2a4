package crisis

import "regexp"

// Explicit intent or plan language.
var highSeverityPatterns = compileAll(
	`\b(want to|going to|plan to|will)\s+(die|kill myself|end (it|my life))\b`,
	`\b(suicide|suicidal)\s+(plan|thoughts?|ideation)\b`,
	`\bno (reason|point) (to|in) (live|living)\b`,
	`\b(goodbye|farewell).{0,20}(world|everyone|forever)\b`,
	`\btake my (own )?life\b`,
)

// Hopelessness framing and self-harm mentions.
var mediumSeverityPatterns = compileAll(
	`\b(can'?t|cannot) (go on|take (it|this) anymore)\b`,
	`\bbetter off (dead|without me)\b`,
	`\beveryone would be better\b`,
	`\b(hurt|harm) myself\b`,
	`\b(cutting|burning) myself\b`,
)

var followUpPatterns = compileAll(
	`\b(called|contacted|talked to|reached out)\b`,
	`\b(feeling (a little )?better|calmer now)\b`,
	`\b(thank you|thanks) (for|about)`,
	`\bstill (here|struggling|hard)\b`,
)

var firstPerson = regexp.MustCompile(`\b(i|i'm|im|my)\b`)

var negativeFuturePhrases = []string{
	"can't go", "won't make", "give up", "no hope", "no way out",
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}
