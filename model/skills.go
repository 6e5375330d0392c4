package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxSkills bounds the number of skills a profile may hold.
const MaxSkills = 15

var (
	ErrSkillLimit     = errors.New("skill limit reached")
	ErrDuplicateSkill = errors.New("skill already present")
)

// Skills is the skill set of one identity. Tags are case-sensitive.
type Skills []string

// Contains reports whether skill is present (case-sensitive).
func (s Skills) Contains(skill string) bool {
	for _, existing := range s {
		if existing == skill {
			return true
		}
	}
	return false
}

// CanAdd checks whether skill may be added to s without breaking the set
// invariants: non-blank, unique, at most MaxSkills entries.
func (s Skills) CanAdd(skill string) error {
	skill = strings.TrimSpace(skill)
	if err := validation.Validate(skill, notBlank); err != nil {
		return err
	}
	if s.Contains(skill) {
		return ErrDuplicateSkill
	}
	if len(s) >= MaxSkills {
		return ErrSkillLimit
	}
	return nil
}
