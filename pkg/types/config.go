// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FormatConfig holds the URL prefixes used when rendering citation HTML.
// The core takes these as explicit parameters; the CLI reads them from
// its config file.
type FormatConfig struct {
	// DOIURLPrefix is prepended to a DOI to form a resolver link
	// (e.g. "https://doi.org/").
	DOIURLPrefix string `json:"doi_url_prefix" yaml:"doi_url_prefix"`

	// ArxivURLAbsPrefix is prepended to an eprint identifier to form an
	// abstract-page link (e.g. "https://arxiv.org/abs/").
	ArxivURLAbsPrefix string `json:"arxiv_url_abs_prefix" yaml:"arxiv_url_abs_prefix"`
}

// DefaultFormatConfig returns the standard resolver prefixes.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		DOIURLPrefix:      "https://doi.org/",
		ArxivURLAbsPrefix: "https://arxiv.org/abs/",
	}
}

// MatchConfig holds the fuzzy-matching tolerances. Citation sources
// vary in how noisy their metadata is, so these are tunables rather
// than constants.
type MatchConfig struct {
	// SurnameDistance is the maximum Levenshtein distance at which two
	// normalized surnames still count as the same author.
	SurnameDistance int `json:"surname_distance" yaml:"surname_distance"`

	// TitleDistanceRatio is the maximum edit-distance-to-length ratio at
	// which two normalized titles still count as the same work.
	TitleDistanceRatio float64 `json:"title_distance_ratio" yaml:"title_distance_ratio"`
}

// DefaultMatchConfig returns tolerances suitable for reconciling
// arXiv, Crossref, and ADS metadata for the same works.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		SurnameDistance:    1,
		TitleDistanceRatio: 0.1,
	}
}

// StoreConfig holds settings for the CLI's bibliography database. The
// core packages never touch persistence; only the command layer does.
type StoreConfig struct {
	// DBPath is the SQLite database file path.
	DBPath string `json:"db_path" yaml:"db_path"`
}
