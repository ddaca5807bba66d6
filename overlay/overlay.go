package overlay

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no explicit path is configured.
const DefaultPath = "provisioner.yaml"

// Overlay is the parsed user-supplied configuration overlay.
type Overlay struct {
	Name        string `yaml:"name" json:"name,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
	Slug        string `yaml:"slug" json:"slug,omitempty"`

	// GoogleMapsAPIKey enables the mapped-service integration in the
	// built client. Missing key means the feature ships disabled.
	GoogleMapsAPIKey string `yaml:"google_maps_api_key" json:"google_maps_api_key,omitempty"`
}

var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Load reads and parses the overlay file at path. A missing file returns
// (nil, nil): absence disables optional features but never fails the run.
// A present but malformed file is an error so a typo does not silently
// drop the operator's configuration.
func Load(path string) (*Overlay, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("overlay: read %s: %w", path, err)
	}

	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("overlay: parse %s: %w", path, err)
	}
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("overlay: %s: %w", path, err)
	}
	return &o, nil
}

func (o *Overlay) validate() error {
	if o.Slug != "" && !slugRegex.MatchString(o.Slug) {
		return fmt.Errorf("slug %q must be lowercase alphanumeric with dashes", o.Slug)
	}
	return nil
}
