// Package behave parses behaviour suites: TOML files describing submissions,
// test fixtures and expected verdicts. The scenario CLI runs them against the
// engine to smoke-test language profiles on a new host.
package behave

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/langs"
)

// SpecTest is a single test case in the behaviour file.
type SpecTest struct {
	ID     int64   `toml:"id"`
	Input  *string `toml:"input"`
	Answer string  `toml:"answer"`
	Hidden bool    `toml:"hidden"`
}

// SpecLanguage describes a language profile in the behaviour file. Either
// reference a registered language by id, or provide the profile inline.
type SpecLanguage struct {
	LangID     string   `toml:"lang_id"`
	SourceExt  string   `toml:"source_ext"`
	CompileCmd []string `toml:"compile_cmd"`
	RunCmd     []string `toml:"run_cmd"`
	TimeoutSec int      `toml:"timeout_sec"`
}

// SpecExpect describes the expected grading outcome.
type SpecExpect struct {
	PassedAll bool `toml:"passed_all"`
	Attempted int  `toml:"attempted"`
}

type specScenario struct {
	Description string       `toml:"description"`
	Code        string       `toml:"code"`
	Language    SpecLanguage `toml:"language"`
	Tests       []SpecTest   `toml:"tests"`
	Expect      SpecExpect   `toml:"expect"`
}

type specRoot struct {
	Scenarios []specScenario `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML.
type Case struct {
	Name    string
	Profile langs.Profile
	Code    string
	Tests   []grader.TestCase
	Expect  SpecExpect
}

// Parse reads a behaviour TOML file and converts it to runnable cases,
// resolving lang_id references against the given registry.
func Parse(path string, registry *langs.Registry) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse behaviour file: %w", err)
	}

	cases := make([]Case, 0, len(root.Scenarios))
	for _, sc := range root.Scenarios {
		profile, err := resolveLanguage(sc.Language, registry)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Description, err)
		}

		tests := make([]grader.TestCase, 0, len(sc.Tests))
		for i, t := range sc.Tests {
			id := t.ID
			if id == 0 {
				id = int64(i + 1)
			}
			tests = append(tests, grader.TestCase{
				ID:     id,
				Input:  t.Input,
				Answer: t.Answer,
				Hidden: t.Hidden,
			})
		}
		if len(tests) == 0 {
			return nil, fmt.Errorf("scenario %q has no tests", sc.Description)
		}

		expect := sc.Expect
		if expect.Attempted == 0 {
			expect.Attempted = len(tests)
		}

		cases = append(cases, Case{
			Name:    sc.Description,
			Profile: profile,
			Code:    sc.Code,
			Tests:   tests,
			Expect:  expect,
		})
	}
	return cases, nil
}

func resolveLanguage(spec SpecLanguage, registry *langs.Registry) (langs.Profile, error) {
	if spec.LangID != "" {
		return registry.Resolve(spec.LangID)
	}

	profile := langs.Profile{
		ID:         "inline",
		SourceExt:  spec.SourceExt,
		CompileCmd: spec.CompileCmd,
		RunCmd:     spec.RunCmd,
		TimeoutSec: spec.TimeoutSec,
	}
	if profile.TimeoutSec == 0 {
		profile.TimeoutSec = 8
	}
	if len(profile.RunCmd) == 0 {
		return langs.Profile{}, fmt.Errorf("inline language requires run_cmd")
	}
	if profile.SourceExt == "" {
		return langs.Profile{}, fmt.Errorf("inline language requires source_ext")
	}
	return profile, nil
}
