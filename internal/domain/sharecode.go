package domain

// ShareCode is a validated match share code such as
// CSGO-aBcDe-FgHiJ-kLmNo-PqRsT-uVwXy. Build one through the sharecode package.
type ShareCode string

func (c ShareCode) String() string { return string(c) }

// ResolvedURL is the playback URL the resolver returned for a share code.
type ResolvedURL struct {
	Code ShareCode `json:"code"`
	URL  string    `json:"url"`
}

// UnresolvedCode is a share code the resolver could not map to a URL.
type UnresolvedCode struct {
	Code  ShareCode `json:"code"`
	Error string    `json:"error"`
}

// Resolution is the outcome of resolving a list of share codes.
type Resolution struct {
	Found    []ResolvedURL    `json:"found"`
	NotFound []UnresolvedCode `json:"notFound"`
}

// URLs returns the found URLs in resolution order.
func (r *Resolution) URLs() []string {
	urls := make([]string, 0, len(r.Found))
	for _, f := range r.Found {
		urls = append(urls, f.URL)
	}
	return urls
}
