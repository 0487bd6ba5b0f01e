package upload

import (
	"finsight/src/pkg/failure"
)

/*
Set is the ordered list of staged candidates. A candidate with the same name
and size as a staged one is treated as a duplicate.

Set is not safe for concurrent use; the session guards it.
*/
type Set struct {
	candidates []Candidate
}

/*
Add stages every valid, non-duplicate candidate in order. Invalid ones are
skipped; the failure of the last invalid candidate is returned so the caller
can show it.
*/
func (s *Set) Add(candidates ...Candidate) (added int, lastFailure *failure.Failure) {
	for _, candidate := range candidates {
		validationFailure := Validate(candidate)
		if validationFailure != nil {
			lastFailure = validationFailure
			continue
		}
		if s.contains(candidate) {
			continue
		}

		s.candidates = append(s.candidates, candidate)
		added += 1
	}
	return added, lastFailure
}

func (s *Set) contains(candidate Candidate) bool {
	for _, staged := range s.candidates {
		if staged.Name == candidate.Name && staged.Size == candidate.Size {
			return true
		}
	}
	return false
}

// Remove drops the candidate at index. It reports false for an index out of range.
func (s *Set) Remove(index int) bool {
	if index < 0 || index >= len(s.candidates) {
		return false
	}
	s.candidates = append(s.candidates[:index], s.candidates[index+1:]...)
	return true
}

func (s *Set) Clear() {
	s.candidates = nil
}

func (s *Set) Len() int {
	return len(s.candidates)
}

func (s *Set) At(index int) (Candidate, bool) {
	if index < 0 || index >= len(s.candidates) {
		return Candidate{}, false
	}
	return s.candidates[index], true
}

// First is the candidate that gets analyzed; the rest stay staged until cleared.
func (s *Set) First() (Candidate, bool) {
	return s.At(0)
}

// Candidates returns a copy of the staged list.
func (s *Set) Candidates() []Candidate {
	candidates := make([]Candidate, len(s.candidates))
	copy(candidates, s.candidates)
	return candidates
}
