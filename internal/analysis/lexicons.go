package analysis

// Compact polarity and toxicity lexicons for the default engine. These are
// intentionally small: the engine exists so the service works out of the box,
// not to compete with a trained classifier.

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"helpful", "useful", "clear", "correct", "accurate", "efficient",
	"elegant", "robust", "reliable", "fast", "easy", "simple", "best",
	"better", "improved", "success", "successful", "love", "like",
	"enjoy", "happy", "glad", "pleased", "impressive", "brilliant",
	"effective", "valuable", "strong", "perfect", "nice", "well",
	"positive", "beneficial", "clean", "safe", "smart", "optimal",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "poor", "wrong", "incorrect",
	"broken", "buggy", "slow", "hard", "difficult", "confusing",
	"unclear", "worse", "worst", "fail", "failed", "failure", "error",
	"problem", "issue", "hate", "dislike", "sad", "angry", "annoying",
	"frustrating", "useless", "unreliable", "fragile", "weak",
	"negative", "harmful", "dangerous", "messy", "ugly", "dumb",
	"disappointing", "inadequate", "flawed", "defective",
}

var toxicWords = []string{
	"idiot", "stupid", "moron", "imbecile", "fool", "loser", "trash",
	"garbage", "pathetic", "worthless", "shut", "hate", "kill",
	"die", "dumbass", "jerk", "scum", "disgusting", "despise",
}
