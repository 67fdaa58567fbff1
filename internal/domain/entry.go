package domain

// Entry is a dictionary entry as served by jisho.org. JSON field names follow
// the upstream API so that entries can be relayed to page contexts unchanged.
type Entry struct {
	Slug     string     `json:"slug"`
	IsCommon *bool      `json:"is_common,omitempty"`
	Senses   []Sense    `json:"senses"`
	Japanese []Japanese `json:"japanese"`
}

// Sense is a group of English definitions sharing parts of speech.
type Sense struct {
	EnglishDefinitions []string `json:"english_definitions"`
	PartsOfSpeech      []string `json:"parts_of_speech"`
}

// Japanese is a writing/reading pair. Either side may be absent: kana-only
// words have no writing, some entries carry no reading.
type Japanese struct {
	Word    string `json:"word,omitempty"`
	Reading string `json:"reading,omitempty"`
}

// Reading returns the reading of the pair matching the slug, falling back to
// the first reading available.
func (e *Entry) Reading() string {
	for _, j := range e.Japanese {
		if (j.Word == e.Slug || j.Reading == e.Slug) && j.Reading != "" {
			return j.Reading
		}
	}
	for _, j := range e.Japanese {
		if j.Reading != "" {
			return j.Reading
		}
	}
	return ""
}

// Result is the outcome of a successful lookup. A nil Entry is the explicit
// "not found" marker: it is cached and delivered like any other result.
type Result struct {
	Entry *Entry
}

// NotFound returns the "not found" result.
func NotFound() Result {
	return Result{}
}

// Found wraps an entry into a result.
func Found(e *Entry) Result {
	return Result{Entry: e}
}

// IsNotFound reports whether the lookup found no entry.
func (r Result) IsNotFound() bool {
	return r.Entry == nil
}
