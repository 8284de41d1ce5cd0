package hclgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/dagprof/internal/ctxlog"
	"github.com/vk/dagprof/internal/engine"
)

// Definition is a fully translated graph definition, ready to be
// turned into an engine.Graph.
type Definition struct {
	Network string
	Runs    int
	Workers int
	Specs   []engine.NodeSpec
}

// Default session parameters applied when the profile block omits them.
const (
	DefaultNetwork = "net"
	DefaultRuns    = 3
	DefaultWorkers = 4
)

// Loader parses HCL graph definition files.
type Loader struct{}

// NewLoader creates a new HCL graph definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers all .hcl files under the given paths, decodes them,
// and merges their blocks into one Definition. Operator blocks merge
// across files in discovery order; a later profile block overrides an
// earlier one.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Definition, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found under %v", paths)
	}
	logger.Debug("Discovered graph definition files.", "count", len(files))

	parser := hclparse.NewParser()
	var profile *ProfileBlock
	var operators []*OperatorBlock

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}

		if root.Profile != nil {
			profile = root.Profile
		}
		operators = append(operators, root.Operators...)
	}

	def, err := translate(profile, operators)
	if err != nil {
		return nil, err
	}
	logger.Debug("Graph definition loaded.",
		"network", def.Network, "operators", len(def.Specs), "runs", def.Runs, "workers", def.Workers)
	return def, nil
}

// findHCLFiles walks all given paths and returns every .hcl file
// found, de-duplicated, in discovery order.
func findHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, ok := seen[p]; !ok {
			all = append(all, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}

		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return all, nil
}
