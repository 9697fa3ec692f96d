package security

import (
	"strings"
)

// Verdict is the outcome of classifying a single command.
type Verdict struct {
	Safe bool
	// Keyword is the deny-list fragment that matched. Empty when Safe.
	Keyword string
}

// Classifier flags commands containing a deny-listed fragment.
type Classifier struct {
	keywords   []string
	normalized []string
}

// NewClassifier creates a classifier over the given deny-list.
// A nil or empty list uses DefaultDenyList. Blank entries are ignored
// since an empty fragment would match every command.
func NewClassifier(denyList []string) *Classifier {
	if len(denyList) == 0 {
		denyList = DefaultDenyList()
	}

	c := &Classifier{}
	for _, kw := range denyList {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		c.keywords = append(c.keywords, kw)
		c.normalized = append(c.normalized, strings.ToLower(kw))
	}
	return c
}

// NewClassifierFromPolicy creates a classifier from the policy's deny-list.
func NewClassifierFromPolicy(policy *SecurityPolicy) *Classifier {
	if policy == nil {
		return NewClassifier(nil)
	}
	return NewClassifier(policy.DenyList)
}

// Classify checks the command against the deny-list, case-insensitively.
// The first matching fragment, in deny-list order, is reported.
func (c *Classifier) Classify(command string) Verdict {
	lower := strings.ToLower(command)
	for i, kw := range c.normalized {
		if strings.Contains(lower, kw) {
			return Verdict{Safe: false, Keyword: c.keywords[i]}
		}
	}
	return Verdict{Safe: true}
}

// IsSafe reports whether the command contains no deny-listed fragment.
func (c *Classifier) IsSafe(command string) bool {
	return c.Classify(command).Safe
}

// DenyList returns a copy of the fragments the classifier matches against.
func (c *Classifier) DenyList() []string {
	out := make([]string, len(c.keywords))
	copy(out, c.keywords)
	return out
}
