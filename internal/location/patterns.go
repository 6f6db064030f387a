package location

import (
	"regexp"

	"github.com/yourusername/jobboard-api/internal/textutil"
)

var (
	globalRemote = regexp.MustCompile(`(?i)\b(?:work\s+from\s+anywhere|anywhere\s+in\s+the\s+world|world[\s-]?wide|globally\s+(?:remote|distributed)|global(?:ly)?\s+remote|remote\s*[-–:,(\[]?\s*(?:global|worldwide|anywhere)|fully\s+remote|100%\s+remote|remote[\s-]first|location[\s-](?:independent|agnostic)|any\s+time\s*zone|all\s+time\s*zones)\b`)

	remoteMention = regexp.MustCompile(`(?i)\b(?:remote(?:ly)?|work\s+from\s+home|wfh|distributed\s+team|telecommute|work\s+from\s+anywhere)\b`)

	noRemote = regexp.MustCompile(`(?i)\b(?:no\s+remote|not\s+(?:a\s+)?remote|remote\s+(?:work\s+)?(?:is\s+)?not\s+(?:possible|available|an\s+option|offered)|non[\s-]remote|relocation\s+(?:is\s+)?required|must\s+relocate)\b`)

	onSitePhrase = regexp.MustCompile(`(?i)\b(?:on[\s-]?site|in[\s-]office|in[\s-]person|office[\s-]based)\b`)

	hybridPhrase = regexp.MustCompile(`(?i)\bhybrid\b|\b\d\s*(?:-\s*\d\s*)?days?\s*(?:a|per|/)\s*week\s*(?:in|at)\s*(?:the\s*|our\s*)?office\b|\bpart(?:ial)?ly\s+remote\b|\bremote\s+and\s+in[\s-]office\b`)

	// "hybrid cloud" and friends are technology, not a work arrangement.
	hybridTech = regexp.MustCompile(`(?i)\bhybrid\s+(?:cloud|apps?|mobile|infrastructure|search|vehicles?|architecture)\b`)

	roleKeyword = textutil.WordPattern(
		"engineer", "engineers", "developer", "developers", "designer", "designers",
		"manager", "managers", "scientist", "scientists", "analyst", "analysts",
		"architect", "sre", "devops", "recruiter", "researcher", "product owner",
		"marketer", "head of", "director", "intern", "consultant", "specialist",
		"administrator", "technical writer",
	)

	segmentSplit = regexp.MustCompile(`[\n|]+`)
)

// MentionsRemote reports a remote-work mention that is not negated
// ("no remote", "remote is not possible").
func MentionsRemote(text string) bool {
	return remoteMention.MatchString(mask(noRemote, text))
}

func hasGlobalRemote(text string) bool {
	return globalRemote.MatchString(mask(noRemote, text))
}

func hasHybrid(text string) bool {
	return hybridPhrase.MatchString(mask(hybridTech, text))
}

// MentionsRole reports whether text names a job role ("engineer", "designer"...).
func MentionsRole(text string) bool {
	return roleKeyword.MatchString(text)
}
