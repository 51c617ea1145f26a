package project

import "strings"

// SetName returns an UpdateSetter that renames the project.
func SetName(name string) UpdateSetter {
	return func(p *Project) error {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return ErrInvalidProjectName
		}
		p.Name = trimmed
		return nil
	}
}
