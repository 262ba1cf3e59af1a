package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"gopkg.in/yaml.v3"
)

// Node is one requirement entry within a framework library. Depth encodes the
// position in the framework's outline so clients can render the hierarchy.
type Node struct {
	RefID       string `yaml:"ref_id" json:"refId"`
	URN         string `yaml:"urn" json:"urn"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Depth       int    `yaml:"depth" json:"depth"`
}

// Framework is a compliance framework library loaded from one YAML file
type Framework struct {
	Name         string `yaml:"name" json:"name"`
	URN          string `yaml:"urn" json:"urn"`
	Requirements []Node `yaml:"requirements" json:"requirements"`
}

// Catalog holds the framework libraries available for session grounding.
// It is loaded once at startup and read-only afterwards.
type Catalog struct {
	frameworks []Framework
}

// Load reads every .yml/.yaml file under dir as one framework library.
// Frameworks are ordered by name for a stable listing. A missing or empty
// directory yields an empty catalog, not an error.
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return &Catalog{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read catalog directory",
			goerr.V("dir", dir),
			goerr.T(errs.TagConfiguration))
	}

	var frameworks []Framework
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read framework library",
				goerr.V("path", path),
				goerr.T(errs.TagConfiguration))
		}

		var fw Framework
		if err := yaml.Unmarshal(raw, &fw); err != nil {
			return nil, goerr.Wrap(err, "failed to parse framework library",
				goerr.V("path", path),
				goerr.T(errs.TagConfiguration))
		}
		if fw.URN == "" {
			return nil, goerr.New("framework library has no urn",
				goerr.V("path", path),
				goerr.T(errs.TagConfiguration))
		}
		if fw.Requirements == nil {
			fw.Requirements = []Node{}
		}
		frameworks = append(frameworks, fw)
	}

	sort.Slice(frameworks, func(i, j int) bool {
		return frameworks[i].Name < frameworks[j].Name
	})

	return &Catalog{frameworks: frameworks}, nil
}

// Frameworks returns the loaded libraries. Never nil.
func (x *Catalog) Frameworks() []Framework {
	if x.frameworks == nil {
		return []Framework{}
	}
	return x.frameworks
}

// Find returns the framework with the given URN, or nil
func (x *Catalog) Find(urn string) *Framework {
	for i := range x.frameworks {
		if x.frameworks[i].URN == urn {
			return &x.frameworks[i]
		}
	}
	return nil
}
