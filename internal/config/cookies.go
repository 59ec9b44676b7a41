package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CookieField describes one site cookie worth exporting from the browser.
type CookieField struct {
	Name        string
	Description string
	Critical    bool
}

// CookieFields lists the Ultimate Guitar cookies, in prompt order.
var CookieFields = []CookieField{
	{"UGSESSION", "Main UG session", true},
	{"SESSIONUG", "Alternative UG session", true},
	{"_ug_session_id", "UG session ID", true},
	{"bbsessionhash", "Forum session hash", false},
	{"_pro_buySession", "Pro subscription session", false},
	{"ug_auth_provider", "Auth provider (Google, etc)", false},
	{"ug_unified_id", "Unified user ID", true},
	{"bbuserid", "Forum user ID", false},
	{"bbpassword", "Forum password hash", false},
	{"_ga", "Google Analytics", false},
}

// CookieTemplate returns placeholder values for every known cookie.
func CookieTemplate() map[string]string {
	template := make(map[string]string, len(CookieFields))
	for _, f := range CookieFields {
		template[f.Name] = "your_" + strings.ToLower(strings.TrimLeft(f.Name, "_")) + "_value_here"
	}
	return template
}

// browserCookie is one entry of a browser extension export.
type browserCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LoadCookies reads a cookie file.
//
// Two layouts are accepted: a JSON object mapping names to values, and the
// array of {"name", "value", ...} objects that browser cookie extensions
// export. Non-string values in the object form are rendered as JSON text.
func LoadCookies(path string) (map[string]string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}

	cookies, err := ParseCookies(data)
	if err != nil {
		return nil, fmt.Errorf("invalid cookies file %s: %w", expanded, err)
	}
	return cookies, nil
}

// ParseCookies decodes cookie file content. See LoadCookies.
func ParseCookies(data []byte) (map[string]string, error) {
	trimmed := strings.TrimSpace(string(data))

	if strings.HasPrefix(trimmed, "[") {
		var exported []browserCookie
		if err := json.UnmarshalFromString(trimmed, &exported); err != nil {
			return nil, err
		}
		cookies := make(map[string]string, len(exported))
		for _, c := range exported {
			if c.Name != "" {
				cookies[c.Name] = c.Value
			}
		}
		return cookies, nil
	}

	var raw map[string]any
	if err := json.UnmarshalFromString(trimmed, &raw); err != nil {
		return nil, err
	}

	cookies := make(map[string]string, len(raw))
	for name, value := range raw {
		if s, ok := value.(string); ok {
			cookies[name] = s
			continue
		}
		text, err := json.MarshalToString(value)
		if err != nil {
			return nil, fmt.Errorf("cookie %s: %w", name, err)
		}
		cookies[name] = text
	}
	return cookies, nil
}

// SaveCookies writes cookies as an indented JSON object, readable only by the owner.
func SaveCookies(path string, cookies map[string]string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(expanded, append(data, '\n'), 0600)
}

// AnalyzeCookies reports structural problems that make authentication unlikely.
func AnalyzeCookies(cookies map[string]string) []string {
	var issues []string

	switch unified, ok := cookies["ug_unified_id"]; {
	case !ok:
		issues = append(issues, "missing 'ug_unified_id', this is critical for auth")
	case unified == "0":
		issues = append(issues, "'ug_unified_id' is 0, which indicates an anonymous user")
	}

	for _, f := range CookieFields {
		if !f.Critical || f.Name == "ug_unified_id" {
			continue
		}
		if _, ok := cookies[f.Name]; !ok {
			issues = append(issues, fmt.Sprintf("missing '%s' cookie", f.Name))
		}
	}

	return issues
}

// CookieNames returns the sorted cookie names.
func CookieNames(cookies map[string]string) []string {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
