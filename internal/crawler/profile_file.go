package crawler

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pkgerrors "sjsage522/couponworker/pkg/errors"
)

var (
	ErrProfileName      = errors.New("profile name is required")
	ErrProfileStartURLs = errors.New("profile needs at least one start URL")
	ErrProfileTitle     = errors.New("profile needs at least one title locator")
	ErrProfileContainer = errors.New("profile needs a container selector")
)

// profileFile is the on-disk layout of a profiles file
type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// Validate checks that a profile can drive a crawl
func (p Profile) Validate() error {
	switch {
	case p.Name == "":
		return ErrProfileName
	case len(p.StartURLs) == 0:
		return fmt.Errorf("%s: %w", p.Name, ErrProfileStartURLs)
	case len(p.Containers) == 0 && p.FallbackContainers == "":
		return fmt.Errorf("%s: %w", p.Name, ErrProfileContainer)
	case len(p.Fields.Title) == 0:
		return fmt.Errorf("%s: %w", p.Name, ErrProfileTitle)
	}
	return nil
}

// ParseProfiles decodes a YAML profiles document
func ParseProfiles(data []byte) ([]Profile, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, pkgerrors.NewConfiguration("invalid profiles file", err)
	}

	for _, p := range file.Profiles {
		if err := p.Validate(); err != nil {
			return nil, pkgerrors.NewConfiguration("invalid profile", err)
		}
	}
	return file.Profiles, nil
}

// LoadProfiles reads a profiles file and merges it over the built-in
// profiles. A file profile replaces a built-in one of the same name.
func LoadProfiles(path string) (map[string]Profile, error) {
	profiles := BuiltinProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.NewConfiguration("read profiles file "+path, err)
	}
	loaded, err := ParseProfiles(data)
	if err != nil {
		return nil, err
	}
	for _, p := range loaded {
		profiles[p.Name] = p
	}
	return profiles, nil
}
