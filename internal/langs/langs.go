package langs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedLanguage is returned when no profile is registered for the
// requested language id.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Profile describes how to compile (optionally) and run source code for one
// language. CompileCmd and RunCmd are argv token lists; tokens may contain the
// {source} and {binary} placeholders which the sandbox substitutes with
// concrete workspace paths.
type Profile struct {
	ID         string
	SourceExt  string
	CompileCmd []string
	RunCmd     []string
	TimeoutSec int
}

// Compiled reports whether the profile has a compile step.
func (p Profile) Compiled() bool { return len(p.CompileCmd) > 0 }

// Timeout is the profile's default per-step timeout.
func (p Profile) Timeout() time.Duration {
	return time.Duration(p.TimeoutSec) * time.Second
}

func (p Profile) validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile has empty id")
	}
	if len(p.RunCmd) == 0 {
		return fmt.Errorf("profile %s has no run command", p.ID)
	}
	if !strings.HasPrefix(p.SourceExt, ".") {
		return fmt.Errorf("profile %s has invalid source extension %q", p.ID, p.SourceExt)
	}
	if p.TimeoutSec <= 0 {
		return fmt.Errorf("profile %s has non-positive timeout %d", p.ID, p.TimeoutSec)
	}
	return nil
}

// Registry is an immutable language table built once at startup. Lookup is
// case-insensitive. Extension happens by constructing a new registry, not by
// runtime registration.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry builds a registry from the given profiles. Later profiles with
// the same id override earlier ones, which lets callers layer a config file
// over Defaults().
func NewRegistry(profiles ...Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("invalid language profile: %w", err)
		}
		r.profiles[strings.ToLower(p.ID)] = p
	}
	return r, nil
}

// Resolve returns the profile registered for id.
func (r *Registry) Resolve(id string) (Profile, error) {
	p, ok := r.profiles[strings.ToLower(id)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, id)
	}
	return p, nil
}

// IDs lists the registered language ids.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	return ids
}

// Defaults returns the built-in profiles: an interpreted language and a
// compiled two-step one.
func Defaults() []Profile {
	return []Profile{
		{
			ID:         "python",
			SourceExt:  ".py",
			RunCmd:     []string{"python3", "{source}"},
			TimeoutSec: 8,
		},
		{
			ID:         "c",
			SourceExt:  ".c",
			CompileCmd: []string{"gcc", "{source}", "-o", "{binary}"},
			RunCmd:     []string{"{binary}"},
			TimeoutSec: 10,
		},
	}
}
