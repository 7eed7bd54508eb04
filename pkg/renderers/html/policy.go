package html

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	bodyPolicyOnce sync.Once
	bodyPolicy     *bluemonday.Policy
)

// sanitizer returns the policy applied to rendered page bodies. Links keep
// http, https, mailto and relative targets; affiliate links gain
// rel="nofollow noreferrer noopener" and open in a new tab.
func sanitizer() *bluemonday.Policy {
	bodyPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(
			"header", "nav", "main", "section", "aside", "footer", "article",
			"div", "span", "p", "ul", "ol", "li", "dl", "dt", "dd",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "em", "b", "i", "code", "pre", "blockquote", "hr", "br",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		p.AllowAttrs("class", "id").Globally()
		p.AllowDataAttributes()
		p.AllowURLSchemes("http", "https", "mailto")
		p.AllowRelativeURLs(true)
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("src", "alt").OnElements("img")
		p.RequireNoFollowOnLinks(true)
		p.RequireNoReferrerOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		bodyPolicy = p
	})
	return bodyPolicy
}
