package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Policy selects the controller kind built for a ControllerSpec.
type Policy string

const (
	PolicyAtomic      Policy = "atomic"
	PolicyAlternative Policy = "alternative"
	PolicyHybrid      Policy = "hybrid"
)

// Document is a parsed controller file.
type Document struct {
	Controllers []ControllerSpec `json:"controllers" yaml:"controllers"`
	// Source records where the document was read from.
	Source string `json:"-" yaml:"-"`
}

// ControllerSpec describes one controller and its submission plan.
type ControllerSpec struct {
	Name     string `json:"name" yaml:"name"`
	Policy   Policy `json:"policy" yaml:"policy"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	// SuccessURL is the atomic redirect target.
	SuccessURL string `json:"success_url,omitempty" yaml:"success_url,omitempty"`
	// SuccessURLs maps top-level entry names to redirect targets for
	// alternative and hybrid controllers.
	SuccessURLs map[string]string `json:"success_urls,omitempty" yaml:"success_urls,omitempty"`
	Entries     []EntrySpec       `json:"entries" yaml:"entries"`
}

// EntrySpec is a top-level plan entry. It declares either a single form
// (Kind set) or a group (Forms set).
type EntrySpec struct {
	Name    string         `json:"name" yaml:"name"`
	Kind    string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Prefix  string         `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Initial map[string]any `json:"initial,omitempty" yaml:"initial,omitempty"`
	Forms   []FormSpec     `json:"forms,omitempty" yaml:"forms,omitempty"`
}

// IsGroup reports whether the entry declares a group.
func (e EntrySpec) IsGroup() bool {
	return len(e.Forms) > 0
}

// FormSpec is a member of a group entry.
type FormSpec struct {
	Name    string         `json:"name" yaml:"name"`
	Kind    string         `json:"kind" yaml:"kind"`
	Prefix  string         `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Initial map[string]any `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// Parse decodes a JSON or YAML document and validates its shape. Form kinds
// are not resolved here; see Document.Build.
func Parse(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("config: document %s is empty", source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Document{}
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return Document{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}
	doc.Source = source
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads every JSON/YAML file in fsys and merges their controllers.
// Controller names must be unique across files.
func LoadFS(fsys fs.FS) (Document, error) {
	merged := Document{Source: "fs"}
	if fsys == nil {
		return merged, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() && isDocumentFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return Document{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return Document{}, err
		}
		merged.Controllers = append(merged.Controllers, doc.Controllers...)
	}
	if err := merged.Validate(); err != nil {
		return Document{}, err
	}
	return merged, nil
}

// Controller returns the spec named name.
func (d Document) Controller(name string) (ControllerSpec, bool) {
	for _, spec := range d.Controllers {
		if spec.Name == name {
			return spec, true
		}
	}
	return ControllerSpec{}, false
}

// Validate reports every structural problem in the document at once.
func (d Document) Validate() error {
	var errs error
	if len(d.Controllers) == 0 {
		errs = multierr.Append(errs, d.errorf("declares no controllers"))
	}
	seen := make(map[string]struct{}, len(d.Controllers))
	for i, spec := range d.Controllers {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			errs = multierr.Append(errs, d.errorf("controller #%d has no name", i))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = multierr.Append(errs, d.errorf("duplicate controller %q", name))
		}
		seen[name] = struct{}{}
		errs = multierr.Append(errs, d.validateController(spec))
	}
	return errs
}

func (d Document) validateController(spec ControllerSpec) error {
	var errs error
	switch spec.Policy {
	case PolicyAtomic, PolicyAlternative, PolicyHybrid:
	default:
		errs = multierr.Append(errs, d.errorf("controller %q: unknown policy %q", spec.Name, spec.Policy))
	}
	if len(spec.Entries) == 0 {
		errs = multierr.Append(errs, d.errorf("controller %q: no entries", spec.Name))
	}

	for i, entry := range spec.Entries {
		label := strings.TrimSpace(entry.Name)
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		switch {
		case entry.IsGroup() && entry.Kind != "":
			errs = multierr.Append(errs, d.errorf("controller %q: entry %s sets both kind and forms", spec.Name, label))
		case entry.IsGroup() && spec.Policy != PolicyHybrid:
			errs = multierr.Append(errs, d.errorf("controller %q: entry %s is a group; groups need the hybrid policy", spec.Name, label))
		case !entry.IsGroup() && strings.TrimSpace(entry.Kind) == "":
			errs = multierr.Append(errs, d.errorf("controller %q: entry %s has no kind", spec.Name, label))
		}
		for j, member := range entry.Forms {
			if strings.TrimSpace(member.Kind) == "" {
				errs = multierr.Append(errs, d.errorf("controller %q: entry %s form #%d has no kind", spec.Name, label, j))
			}
		}
	}

	if spec.Policy == PolicyAtomic && len(spec.SuccessURLs) > 0 {
		errs = multierr.Append(errs, d.errorf("controller %q: atomic controllers take success_url, not success_urls", spec.Name))
	}
	if spec.Policy != PolicyAtomic && spec.SuccessURL != "" {
		errs = multierr.Append(errs, d.errorf("controller %q: %s controllers take success_urls, not success_url", spec.Name, spec.Policy))
	}
	return errs
}

func (d Document) errorf(format string, args ...any) error {
	source := d.Source
	if source == "" {
		source = "document"
	}
	return fmt.Errorf("config: %s: %s", source, fmt.Sprintf(format, args...))
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
