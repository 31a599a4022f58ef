package model

import (
	"fmt"
)

// Severity classifies a validation finding.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Validation codes.
const (
	CodeDuplicateNode    = "DUPLICATE_NODE"
	CodeDuplicateMember  = "DUPLICATE_MEMBER"
	CodeMissingStart     = "MISSING_START_NODE"
	CodeMissingEnd       = "MISSING_END_NODE"
	CodeDegenerateMember = "DEGENERATE_MEMBER"
	CodeNonFinite        = "NON_FINITE_POSITION"
	CodeEmptyID          = "EMPTY_ID"
	CodeOrphanNode       = "ORPHAN_NODE"
)

// ValidationError represents a validation failure.
type ValidationError struct {
	Code     string
	Message  string
	Path     string
	Severity Severity
}

func (e ValidationError) Error() string {
	context := ""
	if e.Path != "" {
		context = fmt.Sprintf(" (at %s)", e.Path)
	}
	return fmt.Sprintf("%s: %s%s", e.Code, e.Message, context)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate cross-checks a structure: unique ids, member endpoints that
// resolve, no degenerate members, finite positions. Nodes no member
// touches are reported as warnings.
func Validate(s *Structure) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNodes(s)...)
	errs = append(errs, validateMembers(s)...)
	return errs
}

func validateNodes(s *Structure) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(s.Nodes))
	used := make(map[string]bool, len(s.Members)*2)
	for _, m := range s.Members {
		used[m.StartNode] = true
		used[m.EndNode] = true
	}

	for i, n := range s.Nodes {
		path := fmt.Sprintf("nodes[%d]", i)
		if n.ID == "" {
			errs = append(errs, ValidationError{
				Code:    CodeEmptyID,
				Message: "node has an empty id",
				Path:    path,
			})
			continue
		}
		if seen[n.ID] {
			errs = append(errs, ValidationError{
				Code:    CodeDuplicateNode,
				Message: fmt.Sprintf("duplicate node id %q", n.ID),
				Path:    path,
			})
		}
		seen[n.ID] = true

		if !n.Position.IsFinite() {
			errs = append(errs, ValidationError{
				Code:    CodeNonFinite,
				Message: fmt.Sprintf("node %q has non-finite position %s", n.ID, n.Position),
				Path:    path + ".position",
			})
		}
		if !used[n.ID] {
			errs = append(errs, ValidationError{
				Code:     CodeOrphanNode,
				Message:  fmt.Sprintf("node %q is not referenced by any member", n.ID),
				Path:     path,
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func validateMembers(s *Structure) []ValidationError {
	var errs []ValidationError
	nodes := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		nodes[n.ID] = true
	}

	seen := make(map[string]bool, len(s.Members))
	for i, m := range s.Members {
		path := fmt.Sprintf("members[%d]", i)
		if m.ID == "" {
			errs = append(errs, ValidationError{
				Code:    CodeEmptyID,
				Message: "member has an empty id",
				Path:    path,
			})
		} else if seen[m.ID] {
			errs = append(errs, ValidationError{
				Code:    CodeDuplicateMember,
				Message: fmt.Sprintf("duplicate member id %q", m.ID),
				Path:    path,
			})
		}
		seen[m.ID] = true

		if !nodes[m.StartNode] {
			errs = append(errs, ValidationError{
				Code:    CodeMissingStart,
				Message: fmt.Sprintf("member %q references non-existent start node %q", m.ID, m.StartNode),
				Path:    path + ".start_node",
			})
		}
		if !nodes[m.EndNode] {
			errs = append(errs, ValidationError{
				Code:    CodeMissingEnd,
				Message: fmt.Sprintf("member %q references non-existent end node %q", m.ID, m.EndNode),
				Path:    path + ".end_node",
			})
		}
		if m.Degenerate() {
			errs = append(errs, ValidationError{
				Code:    CodeDegenerateMember,
				Message: fmt.Sprintf("member %q has identical start and end nodes", m.ID),
				Path:    path,
			})
		}
	}
	return errs
}
