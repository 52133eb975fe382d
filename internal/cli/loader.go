package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/attune/internal/compiler"
)

// LoadMode controls how errors are handled during schema loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading schemas from a directory.
type LoadResult struct {
	Schemas   []compiler.SchemaSpec
	FileCount int // Number of CUE files found
}

// LoadSchemas loads and compiles CUE schema files from a directory.
func LoadSchemas(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{fmt.Errorf("schema directory not found: %s", dir)}
	}
	if err != nil {
		return nil, []error{fmt.Errorf("error accessing schema directory: %w", err)}
	}
	if !info.IsDir() {
		return nil, []error{fmt.Errorf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("error scanning directory: %w", err)}
	}
	if len(cueFiles) == 0 {
		return nil, []error{fmt.Errorf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)

	var errs []error
	result := &LoadResult{FileCount: len(cueFiles)}
	for _, inst := range instances {
		if inst.Err != nil {
			errs = append(errs, inst.Err)
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		v := ctx.BuildInstance(inst)
		specs, err := compiler.CompileSchemas(v)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		result.Schemas = append(result.Schemas, specs...)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return result, nil
}

// FindCUEFiles returns the .cue files directly under dir, sorted by name.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
