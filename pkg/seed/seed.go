// Package seed holds the sample network and decodes seed files.
package seed

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/Sherolroses/Transport/pkg/graph"
)

// ErrUnsupportedFormat is returned for seed files that are neither YAML nor HCL.
var ErrUnsupportedFormat = errors.New("seed: unsupported file format")

type Intersection struct {
	ID   graph.NodeID `yaml:"id" hcl:"id"`
	Name string       `yaml:"name" hcl:"name,label"`
}

type Route struct {
	From     graph.NodeID `yaml:"from" hcl:"from"`
	To       graph.NodeID `yaml:"to" hcl:"to"`
	Distance int          `yaml:"distance" hcl:"distance"`
}

// Network is initial data for a store.
type Network struct {
	Intersections []Intersection `yaml:"intersections" hcl:"intersection,block"`
	Routes        []Route        `yaml:"routes" hcl:"route,block"`
}

// Default returns the four-intersection Cape Town sample.
func Default() *Network {
	return &Network{
		Intersections: []Intersection{
			{ID: 0, Name: "CapeTown_CBD"},
			{ID: 1, Name: "Observatory"},
			{ID: 2, Name: "Rondebosch"},
			{ID: 3, Name: "Claremont"},
		},
		Routes: []Route{
			{From: 0, To: 1, Distance: 6},
			{From: 1, To: 2, Distance: 3},
			{From: 2, To: 3, Distance: 2},
			{From: 0, To: 3, Distance: 10},
		},
	}
}

// Parse decodes a seed file, choosing the format by extension.
func Parse(name string, data []byte) (*Network, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var n Network
		if err := yaml.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return &n, nil
	case ".hcl":
		return parseHCL(name, data)
	default:
		return nil, fmt.Errorf("parse %s: %w", name, ErrUnsupportedFormat)
	}
}

func parseHCL(name string, data []byte) (*Network, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", name, diags)
	}

	var n Network
	if diags := gohcl.DecodeBody(file.Body, nil, &n); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", name, diags)
	}
	return &n, nil
}

// Apply adds every intersection, then every route, in file order. Failures
// do not stop the rest; they are returned joined.
func (n *Network) Apply(s graph.Store) error {
	var errs []error
	for _, in := range n.Intersections {
		if err := s.AddNode(in.ID, in.Name); err != nil {
			errs = append(errs, err)
		}
	}
	for _, r := range n.Routes {
		if err := s.AddEdge(r.From, r.To, r.Distance); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
