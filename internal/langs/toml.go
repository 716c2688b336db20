package langs

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// tomlProfile maps a [[languages]] entry in a registry file.
type tomlProfile struct {
	ID         string   `toml:"id"`
	SourceExt  string   `toml:"source_ext"`
	CompileCmd []string `toml:"compile_cmd"`
	RunCmd     []string `toml:"run_cmd"`
	TimeoutSec int      `toml:"timeout_sec"`
}

type tomlRoot struct {
	Languages []tomlProfile `toml:"languages"`
}

// LoadFile reads language profiles from a TOML file and layers them over the
// built-in defaults. Entries sharing an id with a default replace it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read language registry file: %w", err)
	}
	var root tomlRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse language registry file: %w", err)
	}

	profiles := Defaults()
	for _, t := range root.Languages {
		p := Profile{
			ID:         t.ID,
			SourceExt:  t.SourceExt,
			CompileCmd: t.CompileCmd,
			RunCmd:     t.RunCmd,
			TimeoutSec: t.TimeoutSec,
		}
		if p.TimeoutSec == 0 {
			p.TimeoutSec = 8
		}
		profiles = append(profiles, p)
	}
	return NewRegistry(profiles...)
}
