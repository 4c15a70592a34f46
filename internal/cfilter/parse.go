package cfilter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFilter is returned for filter expressions that are not part of
// the grammar.
var ErrInvalidFilter = errors.New("invalid filter")

// Parse reads a filter written in YAML, for example:
//
//	or:
//	  - name: MPlayer
//	  - and: [mapped, {glob_title: "*- YouTube*"}]
func Parse(src string) (Filter, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidFilter)
	}
	return FromNode(&doc)
}

// FromNode builds a filter from a decoded YAML node.
func FromNode(n *yaml.Node) (Filter, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return nil, syntaxError(n, "empty expression")
		}
		return FromNode(n.Content[0])
	case yaml.AliasNode:
		return FromNode(n.Alias)
	case yaml.ScalarNode:
		return keyword(n)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, syntaxError(n, "a filter mapping must have exactly one key")
		}
		return operator(n.Content[0].Value, n.Content[1])
	default:
		return nil, syntaxError(n, "unexpected sequence")
	}
}

func keyword(n *yaml.Node) (Filter, error) {
	switch strings.ToLower(n.Value) {
	case "true", "all":
		return True, nil
	case "false", "none":
		return False, nil
	case "is_client":
		return IsClient, nil
	case "iconified":
		return Iconified, nil
	case "mapped":
		return Mapped, nil
	}
	return nil, syntaxError(n, fmt.Sprintf("unknown filter %q", n.Value))
}

func operator(key string, val *yaml.Node) (Filter, error) {
	switch key {
	case "and", "or":
		children, err := sequence(key, val)
		if err != nil {
			return nil, err
		}
		if key == "and" {
			return And(children...), nil
		}
		return Or(children...), nil
	case "not":
		child, err := FromNode(val)
		if err != nil {
			return nil, err
		}
		return Not(child), nil
	case "name", "re_name", "glob_name":
		m, err := matcher(strings.TrimSuffix(key, "name"), val)
		if err != nil {
			return nil, err
		}
		return Name(m), nil
	case "title", "re_title", "glob_title":
		m, err := matcher(strings.TrimSuffix(key, "title"), val)
		if err != nil {
			return nil, err
		}
		return Title(m), nil
	}
	return nil, syntaxError(val, fmt.Sprintf("unknown operator %q", key))
}

func sequence(key string, val *yaml.Node) ([]Filter, error) {
	if val.Kind != yaml.SequenceNode {
		return nil, syntaxError(val, key+" expects a list")
	}
	children := make([]Filter, 0, len(val.Content))
	for _, item := range val.Content {
		f, err := FromNode(item)
		if err != nil {
			return nil, err
		}
		children = append(children, f)
	}
	return children, nil
}

// matcher builds the matcher for kind "" (exact), "re_" or "glob_".
func matcher(kind string, val *yaml.Node) (Matcher, error) {
	if val.Kind != yaml.ScalarNode {
		return nil, syntaxError(val, "pattern must be a string or null")
	}
	if val.Tag == "!!null" {
		if kind == "re_" {
			return nil, syntaxError(val, "a regular expression cannot be null")
		}
		return Unset(), nil
	}

	var (
		m   Matcher
		err error
	)
	switch kind {
	case "re_":
		m, err = Regex(val.Value)
	case "glob_":
		m, err = Glob(val.Value)
	default:
		m = Exact(val.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", val.Line, err)
	}
	return m, nil
}

func syntaxError(n *yaml.Node, msg string) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidFilter, n.Line, msg)
}
