package view

import "github.com/microcosm-cc/bluemonday"

// SanitizeHTML returns a child option that filters the child's buffered
// output through the given policy before it is spliced into the parent's
// data. Use it when a child renders markup from untrusted input.
func SanitizeHTML(policy *bluemonday.Policy) ChildOption {
	return WithTransform(func(out []byte) []byte {
		return policy.SanitizeBytes(out)
	})
}
