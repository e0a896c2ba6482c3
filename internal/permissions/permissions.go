package permissions

import (
	"fmt"

	"github.com/dimitrije/taskhive-api/internal/models"
	"github.com/google/uuid"
)

// Level is a task permission tier. Levels form a total order: each tier
// includes every capability of the tiers below it.
type Level int

const (
	None Level = iota
	View
	Edit
	Full
	Owner
)

var levelNames = map[Level]string{
	None:  "none",
	View:  "view",
	Edit:  "edit",
	Full:  "full",
	Owner: "owner",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseShareLevel parses a share-record permission string. Only view, edit
// and full are valid on a share; owner is never stored.
func ParseShareLevel(s string) (Level, error) {
	switch s {
	case "view":
		return View, nil
	case "edit":
		return Edit, nil
	case "full":
		return Full, nil
	default:
		return None, fmt.Errorf("invalid share permission %q", s)
	}
}

// Action is something a user attempts on a task.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Allows reports whether the level grants the action. View grants view only,
// Edit grants view and edit, Full and Owner grant everything.
func (l Level) Allows(a Action) bool {
	switch a {
	case ActionView:
		return l >= View
	case ActionEdit:
		return l >= Edit
	case ActionDelete:
		return l >= Full
	default:
		return false
	}
}

// Resolve computes the effective permission level of userID on task. The
// creator and the assigned user are owners regardless of any share record.
// Otherwise the highest level among the task's shares whose team contains the
// user wins; with no intersecting share the level is None.
//
// Resolve is pure: callers supply the task's share records and the user's
// team memberships, freshly loaded per decision.
func Resolve(task *models.Task, userID uuid.UUID, shares []models.SharedTask, memberTeams []uuid.UUID) Level {
	if task.IsOwnedBy(userID) {
		return Owner
	}

	member := make(map[uuid.UUID]bool, len(memberTeams))
	for _, id := range memberTeams {
		member[id] = true
	}

	highest := None
	for _, share := range shares {
		if !member[share.TeamID] {
			continue
		}
		level, err := ParseShareLevel(share.Permissions)
		if err != nil {
			continue
		}
		if level > highest {
			highest = level
		}
	}
	return highest
}
