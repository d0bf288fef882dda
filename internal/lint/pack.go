package lint

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"srcsh/internal/diag"
)

// PackRule is one rule-pack entry: a regular expression detector and an
// optional regexp.ReplaceAllString-style fix template. This is
// deliberately a thinner shape than the fixed table's hand-written Go
// detectors — a loaded pack trades precision for being data, not code.
type PackRule struct {
	Code     string `yaml:"code"`
	Property string `yaml:"property"`
	Detect   string `yaml:"detect"`
	Fix      string `yaml:"fix,omitempty"`
	Unsafe   bool   `yaml:"unsafe"`
}

// RulePack is a named collection of PackRules, the YAML document shape a
// `--rule-pack path.yaml` flag loads, grounded on agentshield's
// internal/policy.Pack (Name/Rules, yaml.Unmarshal over os.ReadFile).
type RulePack struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Rules       []PackRule `yaml:"rules"`
}

// LoadRulePack reads and parses a rule-pack YAML file. It does not
// register the pack's rules; call RegisterPack with the result.
func LoadRulePack(path string) (*RulePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lint: read rule pack %s: %w", path, err)
	}
	var pack RulePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("lint: parse rule pack %s: %w", path, err)
	}
	if strings.TrimSpace(pack.Name) == "" {
		return nil, fmt.Errorf("lint: rule pack %s has no name", path)
	}
	for _, r := range pack.Rules {
		if strings.TrimSpace(r.Code) == "" {
			return nil, fmt.Errorf("lint: rule pack %s has a rule with no code", path)
		}
	}
	return &pack, nil
}

// toRules compiles pack's PackRules into the package's internal Rule
// shape, one regexp.Compile per rule at load time so a malformed pattern
// fails LoadRulePack's caller immediately rather than at first lint.
func (pack *RulePack) toRules() ([]Rule, error) {
	rules := make([]Rule, 0, len(pack.Rules))
	for _, pr := range pack.Rules {
		re, err := regexp.Compile(pr.Detect)
		if err != nil {
			return nil, fmt.Errorf("lint: rule %s: %w", pr.Code, err)
		}
		pr := pr
		rules = append(rules, Rule{
			Code:     pr.Code,
			Property: pr.Property,
			Unsafe:   pr.Unsafe,
			detect:   func(script string) []diag.Diagnostic { return detectViaRegexp(script, re, pr.Code) },
			apply:    func(script string) (string, bool) { return applyViaRegexp(script, re, pr.Fix) },
		})
	}
	return rules, nil
}

func detectViaRegexp(script string, re *regexp.Regexp, code string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, loc := range re.FindAllStringIndex(script, -1) {
		out = append(out, diag.Diagnostic{
			Code:     code,
			Severity: diag.Warn,
			Span:     diag.Span{Line: lineOf(script, loc[0])},
			Message:  fmt.Sprintf("rule pack match for %s", code),
		})
	}
	return out
}

func applyViaRegexp(script string, re *regexp.Regexp, fix string) (string, bool) {
	if fix == "" {
		return script, false
	}
	next := re.ReplaceAllString(script, fix)
	return next, next != script
}
