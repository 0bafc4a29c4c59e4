package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// Playbook maps a completed task name to the child tasks it spawns.
// Names absent from the table spawn nothing.
type Playbook map[string][]string

// DefaultPlaybook returns the built-in task table.
func DefaultPlaybook() Playbook {
	return Playbook{
		"Define problem":   {"Identify key components", "Determine constraints", "Set goals"},
		"Gather resources": {"Search for information", "Organize resources", "Evaluate resources"},
		"Develop plan":     {"Outline steps", "Assign responsibilities", "Set timeline"},
	}
}

// LoadPlaybook reads a YAML file mapping task names to lists of child task
// names and returns it as a Playbook.
func LoadPlaybook(path string) (Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(ErrCodePlaybookLoadFailed,
			fmt.Sprintf("failed to read playbook %s", path), err)
	}

	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, types.WrapError(ErrCodePlaybookLoadFailed,
			fmt.Sprintf("failed to parse playbook %s", path), err)
	}

	return pb, nil
}
