package config

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/vango-dev/routekit/pkg/pattern"
	"github.com/vango-dev/routekit/pkg/redirect"
)

// RouteInfo converts the route for router.Engine.SetRoute.
func (r RouteConfig) RouteInfo() (pattern.RouteInfo, error) {
	info := pattern.RouteInfo{
		Path:              r.Path,
		CaseSensitive:     r.CaseSensitive,
		IgnoreForFallback: r.IgnoreForFallback,
	}
	if r.Regexp != "" {
		if r.Path != "" {
			return pattern.RouteInfo{}, fmt.Errorf("path and regexp are exclusive")
		}
		re, err := regexp.Compile(r.Regexp)
		if err != nil {
			return pattern.RouteInfo{}, err
		}
		info.Regexp = re
	}
	if _, err := pattern.Compile(info, "/"); err != nil {
		return pattern.RouteInfo{}, err
	}
	return info, nil
}

// Redirection converts the rule for redirect.Redirector.Push.
func (r RuleConfig) Redirection() (redirect.Redirection, error) {
	info, err := RouteConfig{Name: "rule", Path: r.Path, Regexp: r.Regexp, CaseSensitive: r.CaseSensitive}.RouteInfo()
	if err != nil {
		return redirect.Redirection{}, err
	}
	rd := redirect.Redirection{
		Path:          info.Path,
		Regexp:        info.Regexp,
		CaseSensitive: info.CaseSensitive,
		GoTo:          r.GoTo,
	}

	if strings.Contains(r.Href, "{{") {
		fn, err := hrefTemplate(r.Href)
		if err != nil {
			return redirect.Redirection{}, err
		}
		rd.HrefFunc = fn
	} else {
		rd.Href = r.Href
	}

	if o := r.Options; o != nil {
		rd.Options = &redirect.RedirectOptions{
			Hash:          o.Hash.Hash,
			Replace:       o.Replace,
			PreserveQuery: o.PreserveQuery.Preserve,
			State:         o.State,
		}
	}
	return rd, nil
}

// hrefTemplate compiles href. Parameters are exposed by name as text;
// absent ones render empty.
func hrefTemplate(href string) (func(pattern.Params) string, error) {
	tmpl, err := template.New("href").Option("missingkey=zero").Parse(href)
	if err != nil {
		return nil, fmt.Errorf("href template: %w", err)
	}
	return func(params pattern.Params) string {
		data := make(map[string]string, len(params))
		for k := range params {
			data[k], _ = params.String(k)
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, data); err != nil {
			return href
		}
		return sb.String()
	}, nil
}
