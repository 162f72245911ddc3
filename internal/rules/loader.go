package rules

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleSpec is the on-disk form of one declarative rule.
type ruleSpec struct {
	Name         string `yaml:"name"`
	Sensor       string `yaml:"sensor"`
	Want         string `yaml:"want"`
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	OkMessage    string `yaml:"ok_message"`
	ErrorMessage string `yaml:"error_message"`
}

var (
	errRuleName   = errors.New("rule needs a name")
	errRuleSensor = errors.New("rule needs a sensor")
)

// LoadRules reads a yaml rule file and returns the declared rules.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file %q: %w", path, err)
	}
	return parseRules(raw)
}

func parseRules(raw []byte) ([]Rule, error) {
	var specs []ruleSpec
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}

	out := make([]Rule, 0, len(specs))
	for i, sp := range specs {
		r, err := sp.toRule()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (sp ruleSpec) toRule() (Rule, error) {
	if sp.Name == "" {
		return Rule{}, errRuleName
	}
	if sp.Sensor == "" {
		return Rule{}, errRuleSensor
	}
	from, to := Fact(sp.From), Fact(sp.To)
	if !KnownFact(from) {
		return Rule{}, fmt.Errorf("unknown fact %q", sp.From)
	}
	if !KnownFact(to) {
		return Rule{}, fmt.Errorf("unknown fact %q", sp.To)
	}
	ok := sp.OkMessage
	if ok == "" {
		ok = fmt.Sprintf("%s: ok", sp.Name)
	}
	bad := sp.ErrorMessage
	if bad == "" {
		bad = fmt.Sprintf("%s: condition violated", sp.Name)
	}
	return Rule{
		Name:         sp.Name,
		Condition:    SensorState{Sensor: sp.Sensor, Want: sp.Want, From: from, To: to},
		OkMessage:    ok,
		ErrorMessage: bad,
	}, nil
}
