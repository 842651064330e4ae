package search

import (
	"fmt"
	"net/url"
	"strings"

	"animeid/internal/config"
	"animeid/internal/services"
)

// Linker builds the external search URL for a title.
type Linker struct {
	base  *url.URL
	param string
}

// NewLinker validates the base URL and query parameter.
func NewLinker(searchURL, queryParam string) (Linker, error) {
	raw := strings.TrimSpace(searchURL)
	base, err := url.Parse(raw)
	if err != nil {
		return Linker{}, services.Wrap(services.ErrConfiguration, component, "links", raw, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return Linker{}, services.Wrap(services.ErrConfiguration, component, "links", fmt.Sprintf("invalid search url %q", raw), nil)
	}
	param := strings.TrimSpace(queryParam)
	if param == "" {
		return Linker{}, services.Wrap(services.ErrConfiguration, component, "links", "query parameter is required", nil)
	}
	return Linker{base: base, param: param}, nil
}

// LinkerFromConfig builds a Linker from the [links] section.
func LinkerFromConfig(cfg *config.Config) (Linker, error) {
	if cfg == nil {
		return Linker{}, services.Wrap(services.ErrConfiguration, component, "links", "config is nil", nil)
	}
	return NewLinker(cfg.Links.SearchURL, cfg.Links.QueryParam)
}

// Link returns the search URL for title, or "" when title is blank or the
// Linker is unconfigured. Existing query parameters on the base are kept.
func (l Linker) Link(title string) string {
	title = strings.TrimSpace(title)
	if l.base == nil || title == "" {
		return ""
	}
	u := *l.base
	query := u.Query()
	query.Set(l.param, title)
	u.RawQuery = query.Encode()
	return u.String()
}
