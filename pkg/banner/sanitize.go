package banner

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
)

// UGCSanitizer returns the shared policy used when content sanitizing is
// enabled. It keeps ordinary markup plus the embed/iframe/object elements the
// certificate viewer uses to show PDFs.
func UGCSanitizer() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowDataURIImages()
		policy.AllowElements("iframe", "embed", "object")
		policy.AllowAttrs("src", "type", "width", "height", "title").OnElements("iframe", "embed")
		policy.AllowAttrs("data", "type", "width", "height").OnElements("object")
		policy.AllowURLSchemes("http", "https", "data")
		policy.AllowAttrs("class").Globally()
		contentPolicy = policy
	})
	return contentPolicy
}
