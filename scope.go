package askcuny

import (
	"net/url"
	"regexp"
	"strings"
)

// institutionPatterns are the allow-list patterns for institution hosts.
// Matching is full-host, never substring, so a lookalike domain such as
// cuny.edu.evil.com cannot slip through.
var institutionPatterns = []string{
	`.*\.cuny\.edu`,
	`.*\.baruch\.cuny\.edu`,
	`.*\.hunter\.cuny\.edu`,
	`.*\.citytech\.cuny\.edu`,
	`.*\.ccny\.cuny\.edu`,
	`.*\.brooklyn\.cuny\.edu`,
	`.*\.queens\.cuny\.edu`,
	`.*\.lehman\.cuny\.edu`,
	`.*\.csi\.cuny\.edu`,
	`.*\.york\.cuny\.edu`,
	`.*\.mec\.cuny\.edu`,
	`.*\.jjay\.cuny\.edu`,
}

// externalPatterns allow a small set of external reference hosts used for
// rankings and statistics.
var externalPatterns = []string{
	`.*\.nces\.ed\.gov`,
	`.*\.ope\.ed\.gov`,
	`.*\.princetonreview\.com`,
	`.*\.usnews\.com`,
	`.*\.niche\.com`,
	`.*\.cccse\.org`,
}

// Scope decides whether a URL belongs to the constrained crawl universe.
// It holds two disjoint allow-lists: institution subdomains and external
// reference domains.
type Scope struct {
	institution []*regexp.Regexp
	external    []*regexp.Regexp
}

// NewScope compiles the given host patterns into a Scope. Each pattern is
// anchored so it must match the entire host.
func NewScope(institution, external []string) (*Scope, error) {
	s := &Scope{}
	for _, pat := range institution {
		re, err := compileHostPattern(pat)
		if err != nil {
			return nil, err
		}
		s.institution = append(s.institution, re)
	}
	for _, pat := range external {
		re, err := compileHostPattern(pat)
		if err != nil {
			return nil, err
		}
		s.external = append(s.external, re)
	}
	return s, nil
}

// DefaultScope returns the Scope built from the allow-lists versioned with
// the code.
func DefaultScope() *Scope {
	s, err := NewScope(institutionPatterns, externalPatterns)
	if err != nil {
		panic(err) // static patterns, cannot fail
	}
	return s
}

func compileHostPattern(pat string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`\A(?:` + pat + `)\z`)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid host pattern %q: %v", pat, err)
	}
	return re, nil
}

// InScope reports whether the URL's host matches any allow-list pattern.
func (s *Scope) InScope(rawURL string) bool {
	return s.InstitutionHost(rawURL) || s.ExternalHost(rawURL)
}

// InstitutionHost reports whether the URL's host matches an institution
// pattern.
func (s *Scope) InstitutionHost(rawURL string) bool {
	return matchHost(s.institution, rawURL)
}

// ExternalHost reports whether the URL's host matches an external
// reference pattern.
func (s *Scope) ExternalHost(rawURL string) bool {
	return matchHost(s.external, rawURL)
}

func matchHost(patterns []*regexp.Regexp, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(host) {
			return true
		}
	}
	return false
}
