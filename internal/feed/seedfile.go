package feed

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"refreshlist/internal/model"
)

// seedFile is the on-disk layout:
//
//	entries:
//	  - name: Gopher
//	    description: Burrowing rodent
//	    info: 12 stars
type seedFile struct {
	Entries []model.Entry `yaml:"entries"`
}

// LoadSeedFile reads initial entries from a YAML file. Entries without an
// ID get a fresh one; entries without a name are rejected.
func LoadSeedFile(path string) ([]model.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(data)
}

func parseSeed(data []byte) ([]model.Entry, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i := range f.Entries {
		e := &f.Entries[i]
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("seed entry %d: name is required", i)
		}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
	}
	return f.Entries, nil
}
