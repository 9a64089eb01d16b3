package models

// SearchResult is the mapped response of a grounded search request
type SearchResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// FilterSources keeps only citations that carry both a URI and a title,
// preserving their original order. The result is never nil.
func FilterSources(in []Source) []Source {
	out := make([]Source, 0, len(in))
	for _, s := range in {
		if s.URI == "" || s.Title == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// HasSources reports whether the result carries any citation
func (r *SearchResult) HasSources() bool {
	return r != nil && len(r.Sources) > 0
}
